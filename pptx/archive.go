// Package pptx parses binary presentation packages into the deck scene
// graph: an ordered slide list with positioned text and image elements.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Package-level errors.
var (
	// ErrPackageRead means the archive could not be opened at all.
	ErrPackageRead = errors.New("pptx: invalid or corrupted package")

	// ErrPackageParse means the slide part list could not be read.
	ErrPackageParse = errors.New("pptx: package parts unreadable")
)

const (
	slidePartPrefix = "ppt/slides/slide"
	slidePartSuffix = ".xml"
)

// Archive wraps an opened presentation package and gives part-level
// access: ordered slide parts, per-part relationship maps, and raw or
// base64 member reads.
type Archive struct {
	index map[string]*zip.File
}

// OpenArchive opens raw package bytes as a zip container.
func OpenArchive(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackageRead, err)
	}

	index := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		index[f.Name] = f
	}
	return &Archive{index: index}, nil
}

// SlideParts returns slide part names ordered by the integer embedded
// in the filename, so slide2.xml sorts before slide10.xml.
func (a *Archive) SlideParts() []string {
	type part struct {
		name string
		num  int
	}
	var parts []part
	for name := range a.index {
		num := slideNumber(name)
		if num > 0 {
			parts = append(parts, part{name: name, num: num})
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].num < parts[j].num })

	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.name
	}
	return names
}

// slideNumber extracts the ordinal from "ppt/slides/slide12.xml";
// it returns 0 for anything that is not a slide part.
func slideNumber(name string) int {
	if !strings.HasPrefix(name, slidePartPrefix) || !strings.HasSuffix(name, slidePartSuffix) {
		return 0
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, slidePartPrefix), slidePartSuffix)
	num, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return num
}

// relationships is the .rels XML structure, shared across OOXML formats.
type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

// Rels parses the companion relationship part for a slide part and
// returns its id -> package path map. A slide with no relationship part
// is valid and yields nil (no external resources).
func (a *Archive) Rels(slidePart string) map[string]string {
	relsPath := path.Join(path.Dir(slidePart), "_rels", path.Base(slidePart)+".rels")
	data, err := a.ReadFile(relsPath)
	if err != nil {
		return nil
	}

	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil
	}

	result := make(map[string]string, len(rels.Rels))
	for _, rel := range rels.Rels {
		result[rel.ID] = resolveTarget(rel.Target)
	}
	return result
}

// resolveTarget rewrites a slide-relative target into the package's
// canonical path scheme, so "../media/image1.png" and plain relative
// targets both resolve under ppt/.
func resolveTarget(target string) string {
	target = strings.ReplaceAll(target, "\\", "/")
	if strings.HasPrefix(target, "../") {
		return path.Clean("ppt/" + strings.TrimPrefix(target, "../"))
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean("ppt/slides/" + target)
}

// ReadFile returns the raw bytes of a named member.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	f, ok := a.index[name]
	if !ok {
		return nil, fmt.Errorf("pptx: no such part: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ReadBase64 returns a member's bytes base64-encoded, for embedding
// binary resources into data URIs.
func (a *Archive) ReadBase64(name string) (string, error) {
	data, err := a.ReadFile(name)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
