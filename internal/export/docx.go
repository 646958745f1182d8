package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// runStyle is the formatting of one paragraph.
type runStyle struct {
	size   int // half-points
	bold   bool
	italic bool
	color  string
	align  string
	indent int // twips
}

var docxStyles = map[blockKind]runStyle{
	blockTitle:         {size: 36, bold: true, align: "center"},
	blockHeading:       {size: 28, bold: true},
	blockText:          {size: 22},
	blockNote:          {size: 20, italic: true},
	blockQuestion:      {size: 22, bold: true},
	blockOption:        {size: 22, indent: 360},
	blockCorrectOption: {size: 22, bold: true, color: "006E00", indent: 360},
	blockAnswer:        {size: 22, italic: true, color: "006E00"},
	blockAnswerLine:    {size: 22},
}

func renderDOCX(w io.Writer, blocks []block) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRels)},
		{"word/document.xml", documentXML(blocks)},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := f.Write(p.body); err != nil {
			return err
		}
	}
	return zw.Close()
}

func documentXML(blocks []block) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	buf.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		if b.kind == blockPairHeader || b.kind == blockPair {
			// Consecutive pair rows form one table.
			j := i
			for j < len(blocks) && (blocks[j].kind == blockPairHeader || blocks[j].kind == blockPair) {
				j++
			}
			writeTable(&buf, blocks[i:j])
			i = j - 1
			continue
		}
		writeParagraph(&buf, b.text, docxStyles[b.kind])
	}

	buf.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`)
	return buf.Bytes()
}

func writeParagraph(buf *bytes.Buffer, text string, s runStyle) {
	buf.WriteString(`<w:p>`)
	if s.align != "" || s.indent > 0 {
		buf.WriteString(`<w:pPr>`)
		if s.indent > 0 {
			buf.WriteString(`<w:ind w:left="` + strconv.Itoa(s.indent) + `"/>`)
		}
		if s.align != "" {
			buf.WriteString(`<w:jc w:val="` + s.align + `"/>`)
		}
		buf.WriteString(`</w:pPr>`)
	}
	buf.WriteString(`<w:r><w:rPr>`)
	if s.bold {
		buf.WriteString(`<w:b/>`)
	}
	if s.italic {
		buf.WriteString(`<w:i/>`)
	}
	if s.color != "" {
		buf.WriteString(`<w:color w:val="` + s.color + `"/>`)
	}
	if s.size > 0 {
		buf.WriteString(`<w:sz w:val="` + strconv.Itoa(s.size) + `"/>`)
	}
	buf.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	_ = xml.EscapeText(buf, []byte(text))
	buf.WriteString(`</w:t></w:r></w:p>`)
}

func writeTable(buf *bytes.Buffer, rows []block) {
	buf.WriteString(`<w:tbl><w:tblPr><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		buf.WriteString(`<w:` + side + ` w:val="single" w:sz="4"/>`)
	}
	buf.WriteString(`</w:tblBorders></w:tblPr>`)
	for _, r := range rows {
		style := runStyle{size: 22, bold: r.kind == blockPairHeader}
		buf.WriteString(`<w:tr>`)
		for _, cell := range []string{r.left, r.right} {
			buf.WriteString(`<w:tc><w:tcPr><w:tcW w:w="4500" w:type="dxa"/></w:tcPr>`)
			writeParagraph(buf, cell, style)
			buf.WriteString(`</w:tc>`)
		}
		buf.WriteString(`</w:tr>`)
	}
	buf.WriteString(`</w:tbl>`)
}
