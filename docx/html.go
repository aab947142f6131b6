package docx

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"path"
	"strings"
)

// ToHTML converts a flow-document binary package into the HTML-like
// markup the cards converter consumes. It maps semantic paragraph
// styles to block tags rather than reproducing visual formatting,
// which is what card segmentation needs.
func ToHTML(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx: opening package: %w", err)
	}

	index := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		index[f.Name] = f
	}

	docXML, err := readMember(index, "word/document.xml")
	if err != nil {
		return "", fmt.Errorf("docx: word/document.xml not found: %w", err)
	}

	rels := documentRelMap(index)

	var doc wDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return "", fmt.Errorf("docx: parsing document markup: %w", err)
	}

	var b strings.Builder
	for _, para := range doc.Body.Paras {
		text := strings.TrimSpace(paraText(para))
		tag := blockTag(paraStyle(para))

		if text != "" {
			fmt.Fprintf(&b, "<%s>%s</%s>", tag, html.EscapeString(text), tag)
		}

		// Embedded images become data-URI img tags after the
		// paragraph's text, resolved best-effort.
		for _, rID := range paraBlips(para) {
			src, ok := imageDataURI(rID, rels, index)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, `<img src="%s"/>`, src)
		}
	}

	return b.String(), nil
}

// Simplified WordprocessingML structures, matched by local name.
type wDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    struct {
		Paras []wPara `xml:"p"`
	} `xml:"body"`
}

type wPara struct {
	PPr *struct {
		PStyle *struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
	} `xml:"pPr"`
	Runs []wRun `xml:"r"`
}

type wRun struct {
	Text    []wText `xml:"t"`
	Inline  []wBlip `xml:"drawing>inline>graphic>graphicData>pic>blipFill>blip"`
	Anchor  []wBlip `xml:"drawing>anchor>graphic>graphicData>pic>blipFill>blip"`
}

type wText struct {
	Content string `xml:",chardata"`
}

type wBlip struct {
	Embed string `xml:"embed,attr"`
}

func paraText(p wPara) string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

func paraStyle(p wPara) string {
	if p.PPr == nil || p.PPr.PStyle == nil {
		return ""
	}
	return p.PPr.PStyle.Val
}

func paraBlips(p wPara) []string {
	var ids []string
	for _, r := range p.Runs {
		for _, bl := range r.Inline {
			if bl.Embed != "" {
				ids = append(ids, bl.Embed)
			}
		}
		for _, bl := range r.Anchor {
			if bl.Embed != "" {
				ids = append(ids, bl.Embed)
			}
		}
	}
	return ids
}

// blockTag maps a paragraph style name to an output block tag, the same
// style map the original editor applied.
func blockTag(style string) string {
	switch strings.ToLower(style) {
	case "title", "heading1":
		return "h1"
	case "heading2":
		return "h2"
	case "heading3":
		return "h3"
	case "heading4":
		return "h4"
	case "quotation", "intensequote":
		return "blockquote"
	}
	return "p"
}

func readMember(index map[string]*zip.File, name string) ([]byte, error) {
	f, ok := index[name]
	if !ok {
		return nil, fmt.Errorf("no such part: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// documentRelMap reads word/_rels/document.xml.rels into an id -> path
// map under the package's canonical scheme. A missing rels part yields
// nil, which simply resolves no images.
func documentRelMap(index map[string]*zip.File) map[string]string {
	data, err := readMember(index, "word/_rels/document.xml.rels")
	if err != nil {
		return nil
	}

	var rels struct {
		Rels []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil
	}

	out := make(map[string]string, len(rels.Rels))
	for _, rel := range rels.Rels {
		target := strings.ReplaceAll(rel.Target, "\\", "/")
		out[rel.ID] = path.Clean("word/" + target)
	}
	return out
}

func imageDataURI(rID string, rels map[string]string, index map[string]*zip.File) (string, bool) {
	target, ok := rels[rID]
	if !ok {
		return "", false
	}
	data, err := readMember(index, target)
	if err != nil {
		return "", false
	}

	mime := "image/jpeg"
	switch strings.ToLower(path.Ext(target)) {
	case ".png":
		mime = "image/png"
	case ".gif":
		mime = "image/gif"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), true
}
