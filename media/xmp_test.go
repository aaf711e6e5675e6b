package media

import (
	"bytes"
	"testing"
)

const samplePacket = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description xmlns:dc="http://purl.org/dc/elements/1.1/">
   <dc:creator><rdf:Seq><rdf:li>Jamie Fontaine</rdf:li></rdf:Seq></dc:creator>
   <dc:title><rdf:Alt><rdf:li xml:lang="x-default">Kernel Panic at Berlin 2025</rdf:li></rdf:Alt></dc:title>
   <dc:subject><rdf:Bag>
    <rdf:li>battle-of-the-tech-bands</rdf:li>
    <rdf:li>Kernel Panic</rdf:li>
    <rdf:li>berlin</rdf:li>
   </rdf:Bag></dc:subject>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

func TestExtractXMPHints(t *testing.T) {
	// packet embedded mid-stream, as it would be inside a JPEG
	payload := append([]byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x00}, []byte(samplePacket)...)
	payload = append(payload, bytes.Repeat([]byte{0x00}, 128)...)

	hints, err := ExtractXMPHints(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("ExtractXMPHints: %v", err)
	}
	if hints == nil {
		t.Fatal("expected hints, got nil")
	}

	if hints.Creator != "Jamie Fontaine" {
		t.Errorf("creator = %q, want %q", hints.Creator, "Jamie Fontaine")
	}
	if hints.Title != "Kernel Panic at Berlin 2025" {
		t.Errorf("title = %q, want %q", hints.Title, "Kernel Panic at Berlin 2025")
	}
	if len(hints.Keywords) != 3 {
		t.Fatalf("keywords = %v, want 3 entries", hints.Keywords)
	}
	if hints.Keywords[1] != "Kernel Panic" {
		t.Errorf("keywords[1] = %q, want %q", hints.Keywords[1], "Kernel Panic")
	}
}

func TestExtractXMPHintsNoPacket(t *testing.T) {
	hints, err := ExtractXMPHints(bytes.NewReader([]byte("plain jpeg bytes without any packet")))
	if err != nil {
		t.Fatalf("ExtractXMPHints: %v", err)
	}
	if hints != nil {
		t.Errorf("expected nil hints for packetless stream, got %+v", hints)
	}
}

func TestExtractXMPHintsEmptyPacket(t *testing.T) {
	packet := `<x:xmpmeta xmlns:x="adobe:ns:meta/"></x:xmpmeta>`
	hints, err := ExtractXMPHints(bytes.NewReader([]byte(packet)))
	if err != nil {
		t.Fatalf("ExtractXMPHints: %v", err)
	}
	if hints != nil {
		t.Errorf("expected nil hints for empty packet, got %+v", hints)
	}
}
