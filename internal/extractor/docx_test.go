package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocxExtractor(t *testing.T) {
	data := buildDocx(t,
		para("<w:t>Jane</w:t>", "<w:t xml:space=\"preserve\"> Doe</w:t>")+
			para("<w:t>jane@example.com</w:t>", "<w:tab/>", "<w:t>(555) 123-4567</w:t>")+
			para("<w:t>EXPERIENCE</w:t>")+
			para("<w:t>Acme Corp</w:t>", "<w:br/>", "<w:t>2020 - Present</w:t>")+
			"<w:sectPr><w:pgSz w:w=\"12240\"/></w:sectPr>")

	doc, err := NewDocxExtractor().Extract(context.Background(), data, MIMEDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\njane@example.com\t(555) 123-4567\nEXPERIENCE\nAcme Corp\n2020 - Present\n", doc.Text)
	assert.Equal(t, 4, doc.Metadata["paragraphs"])
	assert.Equal(t, "docx", doc.Engine)
}

func TestDocxExtractorThroughRouter(t *testing.T) {
	data := buildDocx(t, para("<w:t>John Smith</w:t>"))
	r := NewRouter().Handle(FormatDOCX, NewDocxExtractor())

	doc, err := r.ExtractFile(context.Background(), data, MIMEDOCX, "cv.docx")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", doc.Text)
	assert.Equal(t, FormatDOCX, doc.Format)
}

func TestDocxExtractorErrors(t *testing.T) {
	e := NewDocxExtractor()

	_, err := e.Extract(context.Background(), []byte("not a zip"), MIMEDOCX)
	assert.ErrorIs(t, err, ErrExtractionFailed)

	broken := buildDocx(t, "<w:p><w:r><w:t>unterminated")
	_, err = e.Extract(context.Background(), broken, MIMEDOCX)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}
