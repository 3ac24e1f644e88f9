package countries

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/iso_countries.txt
var dataFS embed.FS

const defaultListPath = "data/iso_countries.txt"

// Country is one ISO 3166-1 entry: the alpha-2 code plus the English short
// name.
type Country struct {
	Code string
	Name string
}

var (
	defaultOnce      sync.Once
	defaultCountries []Country
	defaultErr       error
)

// DefaultCountries returns the embedded country list, sorted by name.
func DefaultCountries() ([]Country, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		list, err := LoadCountries(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultCountries = list
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]Country{}, defaultCountries...), nil
}

// LoadCountries parses a tab-separated "CODE\tName" list, skipping blank
// lines and # comments. The result is deduplicated by code and sorted by
// name.
func LoadCountries(r io.Reader) ([]Country, error) {
	if r == nil {
		return nil, fmt.Errorf("countries: missing reader")
	}

	scanner := bufio.NewScanner(r)
	list := make([]Country, 0, 256)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code, name, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("countries: malformed line %q", line)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if code == "" || name == "" {
			return nil, fmt.Errorf("countries: malformed line %q", line)
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		list = append(list, Country{Code: code, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Names returns the country names in list order, ready to use as the options
// of a select field.
func Names(list []Country) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}
