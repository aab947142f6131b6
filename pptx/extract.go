package pptx

import (
	"encoding/xml"
	"log/slog"
	"math/rand"
	"path"
	"strconv"
	"strings"

	"github.com/cardflowhq/cardflow/deck"
)

const defaultFontSize = 24 // points, when a shape carries no run size

// Simplified slide XML. Namespaces are matched by local name only,
// which is how the OOXML parts are actually keyed.
type xmlSlide struct {
	CSld struct {
		SpTree xmlShapeTree `xml:"spTree"`
	} `xml:"cSld"`
}

// xmlShapeTree keeps shape and picture nodes in document order, which
// is the element order the slide ends up with.
type xmlShapeTree struct {
	Nodes []xmlTreeNode
}

type xmlTreeNode struct {
	Shape *xmlShape
	Pic   *xmlPic
}

func (st *xmlShapeTree) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				var sp xmlShape
				if err := d.DecodeElement(&sp, &t); err != nil {
					return err
				}
				st.Nodes = append(st.Nodes, xmlTreeNode{Shape: &sp})
			case "pic":
				var pic xmlPic
				if err := d.DecodeElement(&pic, &t); err != nil {
					return err
				}
				st.Nodes = append(st.Nodes, xmlTreeNode{Pic: &pic})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

type xmlShape struct {
	SpPr   xmlShapeProps `xml:"spPr"`
	TxBody *xmlTextBody  `xml:"txBody"`
}

type xmlShapeProps struct {
	Xfrm *xmlTransform `xml:"xfrm"`
}

type xmlTransform struct {
	Off *xmlOffset `xml:"off"`
	Ext *xmlExtent `xml:"ext"`
}

type xmlOffset struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
}

type xmlExtent struct {
	CX string `xml:"cx,attr"`
	CY string `xml:"cy,attr"`
}

type xmlTextBody struct {
	Paras []xmlPara `xml:"p"`
}

type xmlPara struct {
	PPr  *xmlParaProps `xml:"pPr"`
	Runs []xmlRun      `xml:"r"`
}

type xmlParaProps struct {
	Algn string `xml:"algn,attr"`
}

type xmlRun struct {
	RPr  *xmlRunProps `xml:"rPr"`
	Text string       `xml:"t"`
}

type xmlRunProps struct {
	Sz string `xml:"sz,attr"` // hundredths of a point
}

type xmlPic struct {
	BlipFill struct {
		Blip struct {
			Embed string `xml:"embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
	SpPr xmlShapeProps `xml:"spPr"`
}

// extractElements walks one slide part's markup and yields its element
// list in shape-tree document order. Malformed markup yields an empty
// (still valid) slide.
func extractElements(slideXML []byte, rels map[string]string, ar *Archive, rng *rand.Rand) []deck.Element {
	var slide xmlSlide
	if err := xml.Unmarshal(slideXML, &slide); err != nil {
		slog.Debug("pptx: unparsable slide markup", "error", err)
		return nil
	}

	var elements []deck.Element
	seenText := false
	txtIdx, imgIdx := 0, 0

	for _, node := range slide.CSld.SpTree.Nodes {
		switch {
		case node.Shape != nil:
			el, ok := textElement(*node.Shape, txtIdx, seenText, rng)
			txtIdx++
			if !ok {
				continue
			}
			elements = append(elements, el)
			seenText = true

		case node.Pic != nil:
			el, ok := imageElement(*node.Pic, imgIdx, rels, ar, rng)
			imgIdx++
			if !ok {
				continue
			}
			elements = append(elements, el)
		}
	}

	return elements
}

// textElement converts one text-bearing shape. Whitespace-only shapes
// and shapes without a transform are dropped entirely.
func textElement(sp xmlShape, idx int, seenText bool, rng *rand.Rand) (deck.Element, bool) {
	content := shapeText(sp)
	if strings.TrimSpace(content) == "" {
		return deck.Element{}, false
	}

	box, ok := transformBox(sp.SpPr.Xfrm)
	if !ok {
		// No transform means no placement; the shape is dropped
		// rather than defaulted to the origin.
		slog.Debug("pptx: shape without transform dropped", "index", idx)
		return deck.Element{}, false
	}

	// The first non-empty shape in document order is the title
	// candidate; everything after it is body text. Positional
	// heuristic, not a markup attribute.
	level := 2
	if !seenText {
		level = 1
	}

	return deck.Element{
		ID:   deck.NewIndexedID(rng, "txt", idx, 5),
		Kind: deck.KindText,
		Box:  box,
		Text: &deck.TextPayload{
			Content:   content,
			FontSize:  shapeFontSize(sp),
			Align:     shapeAlign(sp),
			IsHeading: !seenText,
			Level:     level,
		},
	}, true
}

// shapeText flattens every text run in the shape into one string.
// Run-level formatting boundaries are not preserved; paragraphs are
// joined with newlines.
func shapeText(sp xmlShape) string {
	if sp.TxBody == nil {
		return ""
	}
	var paras []string
	for _, p := range sp.TxBody.Paras {
		var line strings.Builder
		for _, r := range p.Runs {
			line.WriteString(r.Text)
		}
		if t := strings.TrimSpace(line.String()); t != "" {
			paras = append(paras, t)
		}
	}
	return strings.Join(paras, "\n")
}

// shapeFontSize returns the first run size found, in points.
func shapeFontSize(sp xmlShape) float64 {
	if sp.TxBody == nil {
		return defaultFontSize
	}
	for _, p := range sp.TxBody.Paras {
		for _, r := range p.Runs {
			if r.RPr == nil || r.RPr.Sz == "" {
				continue
			}
			if sz, err := strconv.ParseFloat(r.RPr.Sz, 64); err == nil && sz > 0 {
				return sz / 100
			}
		}
	}
	return defaultFontSize
}

func shapeAlign(sp xmlShape) string {
	if sp.TxBody == nil {
		return ""
	}
	for _, p := range sp.TxBody.Paras {
		if p.PPr == nil {
			continue
		}
		switch p.PPr.Algn {
		case "l":
			return "left"
		case "ctr":
			return "center"
		case "r":
			return "right"
		}
	}
	return ""
}

// transformBox converts a shape transform to percent coordinates.
// A shape with no transform (or no offset/extent) cannot be placed.
func transformBox(xfrm *xmlTransform) (*deck.Box, bool) {
	if xfrm == nil || xfrm.Off == nil || xfrm.Ext == nil {
		return nil, false
	}
	return &deck.Box{
		X:      EMUToX(xfrm.Off.X),
		Y:      EMUToY(xfrm.Off.Y),
		Width:  EMUToX(xfrm.Ext.CX),
		Height: EMUToY(xfrm.Ext.CY),
	}, true
}

// imageElement resolves a picture's blip reference through the
// relationship map and embeds the resource as a data URI. Any failure
// to resolve skips the image without aborting the slide.
func imageElement(pic xmlPic, idx int, rels map[string]string, ar *Archive, rng *rand.Rand) (deck.Element, bool) {
	rID := pic.BlipFill.Blip.Embed
	if rID == "" {
		return deck.Element{}, false
	}

	target, ok := rels[rID]
	if !ok {
		slog.Debug("pptx: unresolved image reference skipped", "rId", rID)
		return deck.Element{}, false
	}

	encoded, err := ar.ReadBase64(target)
	if err != nil {
		slog.Debug("pptx: image resource unreadable", "path", target, "error", err)
		return deck.Element{}, false
	}

	box, ok := transformBox(pic.SpPr.Xfrm)
	if !ok {
		slog.Debug("pptx: picture without transform dropped", "rId", rID)
		return deck.Element{}, false
	}

	return deck.Element{
		ID:    deck.NewIndexedID(rng, "img", idx, 5),
		Kind:  deck.KindImage,
		Box:   box,
		Image: &deck.ImagePayload{DataURI: "data:" + mimeFromExt(path.Ext(target)) + ";base64," + encoded},
	}, true
}

// mimeFromExt infers the MIME type from the resource extension. This is
// a lossy heuristic, not content sniffing: everything that is not PNG
// is treated as JPEG.
func mimeFromExt(ext string) string {
	if strings.EqualFold(ext, ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
