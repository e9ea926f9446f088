// Package version encodes the four-part version tags ("1.0.0.0") found in
// console file headers. On disk a tag is four bytes stored micro first.
package version

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/joshuapare/ctrkit/pkg/memory"
	"github.com/joshuapare/ctrkit/pkg/types"
)

// Size is the encoded size of a Version.
const Size = 4

// CodeInvalidSpecifier is returned for malformed version strings.
const CodeInvalidSpecifier types.Code = "version.invalid_specifier"

// ErrInvalidSpecifier matches any malformed specifier with errors.Is.
var ErrInvalidSpecifier = &types.Error{Code: CodeInvalidSpecifier, Msg: "version: invalid specifier"}

var specifier = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})$`)

// Version is a major.minor.patch.micro tag.
type Version struct {
	Major uint8 `json:"major" yaml:"major"`
	Minor uint8 `json:"minor" yaml:"minor"`
	Patch uint8 `json:"patch" yaml:"patch"`
	Micro uint8 `json:"micro" yaml:"micro"`
}

// Parse reads a "major.minor.patch.micro" specifier. Each part must fit a byte.
func Parse(s string) (Version, error) {
	m := specifier.FindStringSubmatch(s)
	if m == nil {
		return Version{}, invalid(s, nil)
	}
	var parts [4]uint8
	for i, p := range m[1:] {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return Version{}, invalid(s, err)
		}
		parts[i] = uint8(n)
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2], Micro: parts[3]}, nil
}

// MustParse is Parse for constants; it panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func invalid(s string, cause error) error {
	return &types.Error{
		Code: CodeInvalidSpecifier,
		Msg:  fmt.Sprintf("version: invalid specifier %q", s),
		Err:  cause,
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Micro)
}

// Is reports whether v renders as s.
func (v Version) Is(s string) bool { return v.String() == s }

// SizeOf returns the encoded size.
func (Version) SizeOf() int { return Size }

// Build writes v at m's offset, micro first.
func (v Version) Build(m *memory.Memory) error {
	for _, b := range [Size]uint8{v.Micro, v.Patch, v.Minor, v.Major} {
		if err := m.WriteU8(b); err != nil {
			return err
		}
	}
	return nil
}

// Read decodes a Version at m's offset.
func Read(m *memory.Memory) (Version, error) {
	var parts [Size]uint8
	for i := range parts {
		b, err := m.ReadU8()
		if err != nil {
			return Version{}, err
		}
		parts[i] = b
	}
	return Version{Micro: parts[0], Patch: parts[1], Minor: parts[2], Major: parts[3]}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
