package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewTranscriber", func() {
	It("returns no transcriber when OCR is off", func() {
		t, err := NewTranscriber(TranscriberConfig{Kind: "none"})
		Expect(err).NotTo(HaveOccurred())
		Expect(t).To(BeNil())
	})

	It("builds an Ollama transcriber with defaults", func() {
		t, err := NewTranscriber(TranscriberConfig{Kind: "ollama"})
		Expect(err).NotTo(HaveOccurred())
		o, ok := t.(*Ollama)
		Expect(ok).To(BeTrue())
		Expect(o.baseURL).To(Equal("http://localhost:11434"))
		Expect(o.model).To(Equal("llava"))
	})

	It("requires a Gemini API key", func() {
		GinkgoT().Setenv("GEMINI_API_KEY", "")
		_, err := NewTranscriber(TranscriberConfig{Kind: "gemini"})
		Expect(err).To(MatchError(ContainSubstring("API key is required")))
	})

	It("rejects unknown backends", func() {
		_, err := NewTranscriber(TranscriberConfig{Kind: "tesseract"})
		Expect(err).To(MatchError(ContainSubstring("invalid OCR backend")))
	})
})
