package media

import (
	"bytes"
	"io"
	"regexp"
)

// XMP packets are XML islands embedded in the image byte stream (JPEG APP1,
// TIFF tags). goexif only reads EXIF, so the packet is located by its
// delimiters and mined with targeted expressions rather than a full RDF parse.

const xmpScanLimit = 4 << 20 // packets live near the start of the file

var (
	xmpPacketStart = []byte("<x:xmpmeta")
	xmpPacketEnd   = []byte("</x:xmpmeta>")

	xmpCreatorRe = regexp.MustCompile(`(?s)<dc:creator>.*?<rdf:li[^>]*>([^<]+)</rdf:li>`)
	xmpTitleRe   = regexp.MustCompile(`(?s)<dc:title>.*?<rdf:li[^>]*>([^<]+)</rdf:li>`)
	xmpSubjectRe = regexp.MustCompile(`(?s)<dc:subject>(.*?)</dc:subject>`)
	xmpListItemRe = regexp.MustCompile(`<rdf:li[^>]*>([^<]+)</rdf:li>`)
)

// ExtractXMPHints scans an image stream for an embedded XMP packet and pulls
// out the creator, title, and keyword strings. A missing packet returns nil
// without error.
func ExtractXMPHints(r io.Reader) (*XMPHints, error) {
	data, err := io.ReadAll(io.LimitReader(r, xmpScanLimit))
	if err != nil {
		return nil, err
	}

	start := bytes.Index(data, xmpPacketStart)
	if start < 0 {
		return nil, nil
	}
	end := bytes.Index(data[start:], xmpPacketEnd)
	if end < 0 {
		return nil, nil
	}
	packet := data[start : start+end+len(xmpPacketEnd)]

	hints := &XMPHints{}

	if m := xmpCreatorRe.FindSubmatch(packet); m != nil {
		hints.Creator = string(bytes.TrimSpace(m[1]))
	}
	if m := xmpTitleRe.FindSubmatch(packet); m != nil {
		hints.Title = string(bytes.TrimSpace(m[1]))
	}
	if m := xmpSubjectRe.FindSubmatch(packet); m != nil {
		for _, item := range xmpListItemRe.FindAllSubmatch(m[1], -1) {
			kw := string(bytes.TrimSpace(item[1]))
			if kw != "" {
				hints.Keywords = append(hints.Keywords, kw)
			}
		}
	}

	if hints.Creator == "" && hints.Title == "" && len(hints.Keywords) == 0 {
		return nil, nil
	}
	return hints, nil
}
