package lang

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ImageVersion is the current code image format version. Increment when
// making incompatible changes to the format.
const ImageVersion uint16 = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("lang: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// codeImage is the serialized form of a Code. Children recurse; the
// cached variable sets are derived and therefore not stored.
type codeImage struct {
	Version  uint16         `cbor:"1,keyasint"`
	Text     string         `cbor:"2,keyasint"`
	Instrs   []instrImage   `cbor:"3,keyasint"`
	Labels   map[string]int `cbor:"4,keyasint,omitempty"`
	Children []codeImage    `cbor:"5,keyasint,omitempty"`
	Offsets  map[int]int    `cbor:"6,keyasint,omitempty"`
}

type instrImage struct {
	Op    uint8  `cbor:"1,keyasint"`
	Name  string `cbor:"2,keyasint,omitempty"`
	Child int    `cbor:"3,keyasint,omitempty"`
}

// MarshalCode serializes a compiled Code to canonical CBOR bytes.
func MarshalCode(c *Code) ([]byte, error) {
	return cborEncMode.Marshal(imageFromCode(c, true))
}

// UnmarshalCode deserializes a Code from CBOR bytes, revalidating label
// targets and child indexes so a corrupt image cannot produce a stream
// the VM would misread.
func UnmarshalCode(data []byte) (*Code, error) {
	var img codeImage
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("lang: unmarshal code image: %w", err)
	}
	if img.Version > ImageVersion {
		return nil, fmt.Errorf("lang: code image version %d is newer than supported version %d", img.Version, ImageVersion)
	}
	return codeFromImage(&img)
}

func imageFromCode(c *Code, root bool) codeImage {
	img := codeImage{
		Text:    c.Text,
		Labels:  c.Labels,
		Offsets: c.srcOffsets,
	}
	if root {
		img.Version = ImageVersion
	}
	img.Instrs = make([]instrImage, len(c.Instrs))
	for i, in := range c.Instrs {
		img.Instrs[i] = instrImage{Op: uint8(in.Op), Name: in.Name, Child: in.Child}
	}
	for _, child := range c.Children {
		img.Children = append(img.Children, imageFromCode(child, false))
	}
	return img
}

func codeFromImage(img *codeImage) (*Code, error) {
	c := &Code{
		Text:       img.Text,
		Labels:     img.Labels,
		srcOffsets: img.Offsets,
	}
	if c.Labels == nil {
		c.Labels = make(map[string]int)
	}
	if c.srcOffsets == nil {
		c.srcOffsets = make(map[int]int)
	}

	c.Instrs = make([]Instr, len(img.Instrs))
	for i, in := range img.Instrs {
		op := Opcode(in.Op)
		if _, known := opcodeInfoTable[op]; !known {
			return nil, fmt.Errorf("lang: code image has unknown opcode %d at position %d", in.Op, i)
		}
		c.Instrs[i] = Instr{Op: op, Name: in.Name, Child: in.Child}
	}

	for name, target := range c.Labels {
		if target < 0 || target > len(c.Instrs) {
			return nil, fmt.Errorf("lang: code image label %q targets position %d outside stream", name, target)
		}
	}

	for i := range img.Children {
		child, err := codeFromImage(&img.Children[i])
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, child)
	}
	for pos, in := range c.Instrs {
		if in.Op == OpChild && (in.Child < 0 || in.Child >= len(c.Children)) {
			return nil, fmt.Errorf("lang: code image child index %d at position %d outside range", in.Child, pos)
		}
	}

	return c, nil
}
