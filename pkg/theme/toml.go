package theme

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name     string         `toml:"name"`
	Dark     bool           `toml:"dark"`
	Base     thTOMLBase     `toml:"base"`
	Frame    thTOMLFrame    `toml:"frame"`
	Category thTOMLCategory `toml:"category"`
	Progress thTOMLProgress `toml:"progress"`
	Special  thTOMLSpecial  `toml:"special"`
}

type thTOMLBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLFrame struct {
	Border      string `toml:"border"`
	BorderFocus string `toml:"border_focus"`
	Title       string `toml:"title"`
}

type thTOMLCategory struct {
	Cultural  string `toml:"cultural"`
	Technical string `toml:"technical"`
	Sports    string `toml:"sports"`
	Academic  string `toml:"academic"`
}

type thTOMLProgress struct {
	Full  string `toml:"full"`
	Empty string `toml:"empty"`
}

type thTOMLSpecial struct {
	Featured        string `toml:"featured"`
	Error           string `toml:"error"`
	SearchHighlight string `toml:"search_highlight"`
	HelpKey         string `toml:"help_key"`
	HelpDesc        string `toml:"help_desc"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	md, err := toml.Decode(string(data), &tt)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Theme{}, fmt.Errorf("theme: unknown key %s", undecoded[0])
	}

	t := Theme{
		Name:       tt.Name,
		Dark:       tt.Dark,
		Background: tt.Base.Background,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,

		Border:      tt.Frame.Border,
		BorderFocus: tt.Frame.BorderFocus,
		Title:       tt.Frame.Title,

		Cultural:  tt.Category.Cultural,
		Technical: tt.Category.Technical,
		Sports:    tt.Category.Sports,
		Academic:  tt.Category.Academic,

		ProgressFull:  tt.Progress.Full,
		ProgressEmpty: tt.Progress.Empty,

		Featured:        tt.Special.Featured,
		Error:           tt.Special.Error,
		SearchHighlight: tt.Special.SearchHighlight,
		HelpKey:         tt.Special.HelpKey,
		HelpDesc:        tt.Special.HelpDesc,
	}

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{
		Name: t.Name,
		Dark: t.Dark,
		Base: thTOMLBase{
			Background: t.Background,
			Foreground: t.Foreground,
			Dim:        t.Dim,
			Accent:     t.Accent,
		},
		Frame: thTOMLFrame{
			Border:      t.Border,
			BorderFocus: t.BorderFocus,
			Title:       t.Title,
		},
		Category: thTOMLCategory{
			Cultural:  t.Cultural,
			Technical: t.Technical,
			Sports:    t.Sports,
			Academic:  t.Academic,
		},
		Progress: thTOMLProgress{
			Full:  t.ProgressFull,
			Empty: t.ProgressEmpty,
		},
		Special: thTOMLSpecial{
			Featured:        t.Featured,
			Error:           t.Error,
			SearchHighlight: t.SearchHighlight,
			HelpKey:         t.HelpKey,
			HelpDesc:        t.HelpDesc,
		},
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadDir registers every *.toml theme found in dir. A missing directory is
// not an error. Invalid files are reported together; valid ones are still
// registered.
func LoadDir(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	var (
		loaded []string
		errs   []error
	)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		t, err := LoadFromTOML(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(p), err))
			continue
		}
		Register(t)
		loaded = append(loaded, strings.ToLower(t.Name))
	}
	return loaded, errors.Join(errs...)
}

// thValidateTheme checks that a theme has a name and every color is a
// valid #RRGGBB hex string.
func thValidateTheme(t Theme) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("theme: name is required")
	}
	if strings.EqualFold(t.Name, Auto) {
		return fmt.Errorf("theme: %q is reserved", Auto)
	}
	for _, f := range thFields(&t) {
		if !thHexColorRegex.MatchString(*f.ptr) {
			return fmt.Errorf("theme: %s.%s: invalid hex color %q", f.section, f.key, *f.ptr)
		}
	}
	return nil
}
