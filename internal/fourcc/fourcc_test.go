package fourcc

import (
	"testing"
)

func pfFile(kind string) []byte {
	b := []byte{'P', 'F', 0x01, 0x00, 0x00, 0x00, 0x0c, 0x00}
	return append(b, kind...)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want FileType
	}{
		{"atex", []byte("ATEXDXT5\x00\x01\x00\x01"), ATEX},
		{"ateu", []byte("ATEUDXT1"), ATEU},
		{"png", []byte("\x89PNG\r\n\x1a\n"), PNG},
		{"riff webp", []byte("RIFF\x10\x00\x00\x00WEBPVP8 "), WebP},
		{"riff other", []byte("RIFF\x10\x00\x00\x00WAVEfmt "), RIFF},
		{"ogg", []byte("OggS\x00\x02"), OGG},
		{"pf manifest", pfFile("ARMF"), Manifest},
		{"pf model", pfFile("MODL"), Model},
		{"pf unknown kind", pfFile("zzzz"), PF},
		{"pf short", []byte("PF\x01\x00"), PF},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, JPEG},
		{"mp3 id3", []byte("ID3\x04\x00"), MP3},
		{"mp3 frame", []byte{0xff, 0xfb, 0x90}, MP3},
		{"exe", []byte("MZ\x90\x00"), Executable},
		{"utf8 bom", []byte("\xef\xbb\xbfhello"), UTF8},
		{"ttf header", []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x10}, Font},
		{"empty", nil, Unknown},
		{"garbage", []byte{1, 2, 3, 4, 5}, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.data); got != tt.want {
				t.Fatalf("Detect(% x) = %s, want %s", tt.data, got, tt.want)
			}
		})
	}
}

func TestTextureAndContentType(t *testing.T) {
	for _, ft := range []FileType{ATEX, ATTX, ATEC, ATEP, ATEU, ATET, CTEX} {
		if !ft.IsTexture() {
			t.Fatalf("%s should be a texture", ft)
		}
	}
	if PNG.IsTexture() || Model.IsTexture() {
		t.Fatalf("png/model are not ANet textures")
	}
	if PNG.ContentType() != "image/png" {
		t.Fatalf("unexpected png content type %q", PNG.ContentType())
	}
	if ATEX.ContentType() != "application/octet-stream" {
		t.Fatalf("unexpected atex content type %q", ATEX.ContentType())
	}
}
