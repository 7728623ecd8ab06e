// Package fourcc classifies raw archive entries by their leading signature.
package fourcc

import (
	"bytes"
)

type FileType string

const (
	Unknown FileType = "unknown"

	ATEX FileType = "atex"
	ATTX FileType = "attx"
	ATEC FileType = "atec"
	ATEP FileType = "atep"
	ATEU FileType = "ateu"
	ATET FileType = "atet"
	CTEX FileType = "ctex"
	DDS  FileType = "dds"
	JPEG FileType = "jpeg"
	WebP FileType = "webp"
	PNG  FileType = "png"

	Sound      FileType = "sound"
	OGG        FileType = "ogg"
	MP3        FileType = "mp3"
	RIFF       FileType = "riff"
	Bink2      FileType = "bink2"
	Strings    FileType = "strings"
	Font       FileType = "font"
	Executable FileType = "exe"
	UTF8       FileType = "utf8"
	Arap       FileType = "arap"
	Model3DCX  FileType = "3dcx"

	PF                    FileType = "pf"
	Manifest              FileType = "manifest"
	Bank                  FileType = "bank"
	BankIndex             FileType = "bankIndex"
	Model                 FileType = "model"
	Geometry              FileType = "geometry"
	ModelCollision        FileType = "modelCollision"
	DependencyTable       FileType = "dependencyTable"
	EULA                  FileType = "eula"
	GameContent           FileType = "gameContent"
	ContentPortalManifest FileType = "contentPortalManifest"
	Config                FileType = "config"
	MapCollision          FileType = "mapCollision"
	MapParam              FileType = "mapParam"
	MapShadow             FileType = "mapShadow"
	MapMetadata           FileType = "mapMetadata"
	PagedImageTable       FileType = "pagedImageTable"
	Material              FileType = "material"
	Composite             FileType = "composite"
	Cinematic             FileType = "cinematic"
	AnimSequences         FileType = "animSequences"
	EmoteAnimation        FileType = "emoteAnimation"
	TextPackManifest      FileType = "textPackManifest"
	TextPackVariant       FileType = "textPackVariant"
	AudioScript           FileType = "audioScript"
	ShaderCache           FileType = "shaderCache"
	BitmapFont            FileType = "bitmapFont"
)

var signatures = map[string]FileType{
	"ATEX":             ATEX,
	"ATTX":             ATTX,
	"ATEC":             ATEC,
	"ATEP":             ATEP,
	"ATEU":             ATEU,
	"ATET":             ATET,
	"CTEX":             CTEX,
	"DDS ":             DDS,
	"3DCX":             Model3DCX,
	"DXT\x00":          DDS,
	"strs":             Strings,
	"asnd":             Sound,
	"RIFF":             RIFF,
	"OggS":             OGG,
	"ARAP":             Arap,
	"\x00\x01\x00\x00": Font,
	"\x89PNG":          PNG,
}

// PF files carry their content type at offset 8.
var pfTypes = map[string]FileType{
	"ARMF": Manifest,
	"ASND": Sound,
	"ABNK": Bank,
	"ABIX": BankIndex,
	"AMSP": AudioScript,
	"CDHS": ShaderCache,
	"CINP": Cinematic,
	"cntc": GameContent,
	"MODL": Model,
	"GEOM": Geometry,
	"DEPS": DependencyTable,
	"eula": EULA,
	"hvkC": ModelCollision,
	"locl": Config,
	"mapc": MapParam,
	"mpsd": MapShadow,
	"PIMG": PagedImageTable,
	"AMAT": Material,
	"anic": AnimSequences,
	"emoc": EmoteAnimation,
	"prlt": ContentPortalManifest,
	"cmpc": Composite,
	"txtm": TextPackManifest,
	"txtV": TextPackVariant,
	"txtv": TextPackVariant,
	"cmaC": MapCollision,
	"mMet": MapMetadata,
	"AFNT": BitmapFont,
}

var shortSignatures = []struct {
	magic    string
	fileType FileType
}{
	{"\xff\xd8\xff", JPEG},
	{"ID3", MP3},
	{"KB2", Bink2},
	{"\xef\xbb\xbf", UTF8},
	{"\xff\xfb", MP3},
	{"MZ", Executable},
}

// Detect classifies the stored bytes of an uncompressed entry. Compressed
// entries have no meaningful signature.
func Detect(data []byte) FileType {
	if len(data) >= 4 {
		head := string(data[:4])
		if t, ok := signatures[head]; ok {
			if t == RIFF && len(data) >= 12 && string(data[8:12]) == "WEBP" {
				return WebP
			}
			return t
		}
	}

	if bytes.HasPrefix(data, []byte("PF")) {
		if len(data) >= 12 {
			if t, ok := pfTypes[string(data[8:12])]; ok {
				return t
			}
		}
		return PF
	}

	for _, s := range shortSignatures {
		if bytes.HasPrefix(data, []byte(s.magic)) {
			return s.fileType
		}
	}
	return Unknown
}

// IsTexture reports whether t is one of the ANet texture containers.
func (t FileType) IsTexture() bool {
	switch t {
	case ATEX, ATTX, ATEC, ATEP, ATEU, ATET, CTEX:
		return true
	}
	return false
}

// ContentType returns the MIME type to serve t with.
func (t FileType) ContentType() string {
	switch t {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case WebP:
		return "image/webp"
	case DDS:
		return "image/vnd-ms.dds"
	case OGG:
		return "audio/ogg"
	case MP3:
		return "audio/mpeg"
	case UTF8:
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}
