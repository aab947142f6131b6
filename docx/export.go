// Package docx serializes the deck scene graph into a flow-document
// binary package, and converts existing flow documents back into the
// markup the cards converter consumes.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/cardflowhq/cardflow/deck"
	"github.com/cardflowhq/cardflow/theme"
)

// Package-level errors.
var (
	// ErrExport means packaging failed; no partial output is returned.
	ErrExport = errors.New("docx: export failed")

	// ErrExportEncoding means an image payload was not a valid data URI.
	ErrExportEncoding = errors.New("docx: invalid image encoding")
)

const (
	emuPerPixel  = 9525
	baseImageDim = 400 // pixels, before the stored fraction is applied

	// A4 page, in twips.
	pageWidth  = 11906
	pageHeight = 16838
)

// Export serializes slides into a complete document package styled by
// the theme. Each slide becomes one section separated by a page break;
// elements render in order. The package is built fully in memory and
// only handed back whole: on any failure the caller receives nil and
// an error wrapping ErrExport (or ErrExportEncoding for a malformed
// image payload).
func Export(slides []deck.Slide, th theme.Theme) ([]byte, error) {
	var media []mediaFile
	var body strings.Builder

	for si, slide := range slides {
		for _, el := range slide.Elements {
			if el.Kind == deck.KindImage {
				p, m, err := imageParagraph(el, len(media))
				if err != nil {
					return nil, err
				}
				media = append(media, m)
				body.WriteString(p)
				continue
			}
			body.WriteString(textParagraph(el, th))
		}

		if si < len(slides)-1 {
			// Section break closing this slide's section.
			body.WriteString(`<w:p><w:pPr><w:sectPr>` + sectionProps(th) + `</w:sectPr></w:pPr></w:p>`)
		}
	}

	// Final section properties sit directly on the body.
	body.WriteString(`<w:sectPr>` + sectionProps(th) + `</w:sectPr>`)

	pkg, err := writePackage(body.String(), media)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	return pkg, nil
}

// mediaFile is one embedded image resource pending packaging.
type mediaFile struct {
	name string // filename under word/media/
	data []byte
}

// relID returns the image's relationship id. rId1 is the styles part.
func (m mediaFile) relID(idx int) string {
	return fmt.Sprintf("rId%d", idx+2)
}

// decodeDataURI splits a data URI into MIME type and decoded payload.
func decodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data URI", ErrExportEncoding)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrExportEncoding)
	}
	mime, _, _ := strings.Cut(meta, ";")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrExportEncoding, err)
	}
	return mime, data, nil
}

// imageParagraph renders an image element as a centered inline picture
// sized by the element's stored width/height fraction of the base
// dimension.
func imageParagraph(el deck.Element, mediaIdx int) (string, mediaFile, error) {
	if el.Image == nil {
		return "", mediaFile{}, fmt.Errorf("%w: image element without payload", ErrExportEncoding)
	}
	mime, data, err := decodeDataURI(el.Image.DataURI)
	if err != nil {
		return "", mediaFile{}, err
	}

	ext := ".jpg"
	if mime == "image/png" {
		ext = ".png"
	}
	m := mediaFile{name: fmt.Sprintf("image%d%s", mediaIdx+1, ext), data: data}

	wFrac, hFrac := 1.0, 1.0
	if el.Box != nil {
		if el.Box.Width > 0 {
			wFrac = el.Box.Width / 100
		}
		if el.Box.Height > 0 {
			hFrac = el.Box.Height / 100
		}
	}
	cx := int64(baseImageDim * wFrac * emuPerPixel)
	cy := int64(baseImageDim * hFrac * emuPerPixel)

	rID := m.relID(mediaIdx)
	docPrID := mediaIdx + 1

	var b strings.Builder
	b.WriteString(`<w:p><w:pPr><w:jc w:val="center"/><w:spacing w:before="400" w:after="400"/></w:pPr><w:r><w:drawing>`)
	fmt.Fprintf(&b, `<wp:inline distT="0" distB="0" distL="0" distR="0"><wp:extent cx="%d" cy="%d"/>`, cx, cy)
	fmt.Fprintf(&b, `<wp:docPr id="%d" name="%s"/>`, docPrID, m.name)
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture"><pic:pic>`)
	fmt.Fprintf(&b, `<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`, docPrID, m.name)
	fmt.Fprintf(&b, `<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, rID)
	fmt.Fprintf(&b, `<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`, cx, cy)
	b.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`)

	return b.String(), m, nil
}

// textParagraph renders a textual element styled by the theme's heading
// or paragraph rule set.
func textParagraph(el deck.Element, th theme.Theme) string {
	txt := el.Text
	if txt == nil {
		txt = &deck.TextPayload{}
	}
	isHeading := txt.IsHeading || txt.Level == 1

	var fontSize, marginBottom float64
	var color string
	bold, caps := false, false
	if isHeading {
		fontSize = th.Heading.FontSize
		marginBottom = th.Heading.MarginBottom
		color = th.Heading.Color
		bold = th.Heading.Bold
		caps = th.Heading.Uppercase
	} else {
		fontSize = th.Paragraph.FontSize
		marginBottom = th.Paragraph.MarginBottom
		color = th.Paragraph.Color
	}

	var b strings.Builder
	b.WriteString(`<w:p><w:pPr>`)
	if isHeading {
		b.WriteString(`<w:pStyle w:val="Heading1"/>`)
	}
	fmt.Fprintf(&b, `<w:jc w:val="%s"/>`, jcValue(txt.Align))
	// Margin points to twips.
	fmt.Fprintf(&b, `<w:spacing w:after="%d"/>`, int(marginBottom*20))
	b.WriteString(`</w:pPr><w:r><w:rPr>`)
	font := escapeXML(primaryFont(th.FontFamily))
	fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, font, font)
	if bold {
		b.WriteString(`<w:b/>`)
	}
	if caps {
		b.WriteString(`<w:caps/>`)
	}
	fmt.Fprintf(&b, `<w:color w:val="%s"/>`, strings.TrimPrefix(color, "#"))
	// Font size in half-points.
	fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, int(fontSize*2))
	b.WriteString(`</w:rPr>`)
	fmt.Fprintf(&b, `<w:t xml:space="preserve">%s</w:t>`, escapeXML(txt.Content))
	b.WriteString(`</w:r></w:p>`)
	return b.String()
}

func jcValue(align string) string {
	switch align {
	case "center":
		return "center"
	case "right":
		return "right"
	}
	return "left"
}

// primaryFont takes the first family from a CSS-style font list.
func primaryFont(family string) string {
	first, _, _ := strings.Cut(family, ",")
	return strings.TrimSpace(first)
}

// sectionProps emits page size and the theme margins, which are already
// expressed in twips and pass through unchanged.
func sectionProps(th theme.Theme) string {
	return fmt.Sprintf(
		`<w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="708" w:footer="708" w:gutter="0"/>`,
		pageWidth, pageHeight,
		th.Margins.Top, th.Margins.Right, th.Margins.Bottom, th.Margins.Left,
	)
}

func escapeXML(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s)) // only fails on a failing writer
	return b.String()
}

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"><w:body>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="0"/></w:pPr></w:style>
</w:styles>`

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// writePackage assembles the zip container. Everything is written to an
// in-memory buffer so a failure can never leak a half-written file.
func writePackage(body string, media []mediaFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(contentTypes())},
		{"_rels/.rels", []byte(rootRels)},
		{"word/document.xml", []byte(documentHeader + body + `</w:body></w:document>`)},
		{"word/_rels/document.xml.rels", []byte(documentRels(media))},
		{"word/styles.xml", []byte(stylesXML)},
	}
	for _, m := range media {
		files = append(files, struct {
			name    string
			content []byte
		}{"word/media/" + m.name, m.data})
	}

	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.content); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func contentTypes() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Default Extension="png" ContentType="image/png"/>
<Default Extension="jpg" ContentType="image/jpeg"/>
<Default Extension="jpeg" ContentType="image/jpeg"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`
}

func documentRels(media []mediaFile) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + "\n")
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` + "\n")
	for i, m := range media {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/%s"/>`+"\n", m.relID(i), m.name)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}
