package cookiesweep

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// LocateOptions configures store discovery.
type LocateOptions struct {
	// Browsers to scan. Empty means DefaultBrowsers().
	Browsers []Browser

	// Profiles overrides per-browser discovery. The value may be a profile
	// name, a profile directory, or an explicit store file path.
	Profiles map[Browser]string
}

// FindStores enumerates the cookie stores of all installed browsers and
// profiles. Discovery problems (missing roots, unparseable metadata) are soft
// and come back as warnings; stores that exist but turn out unreadable fail
// later, per store, when they are opened.
func FindStores(opts LocateOptions) ([]*Store, []string) {
	browsers := opts.Browsers
	if len(browsers) == 0 {
		browsers = DefaultBrowsers()
	}

	var stores []*Store
	var warnings []string
	seen := make(map[string]struct{})

	for _, b := range browsers {
		override := ""
		if opts.Profiles != nil {
			override = opts.Profiles[b]
		}

		var found []*Store
		var w []string
		switch b {
		case BrowserFirefox:
			found, w = firefoxStores(override)
		case BrowserChrome, BrowserChromium, BrowserEdge, BrowserBrave, BrowserVivaldi, BrowserOpera:
			found, w = chromiumStores(b, override)
		default:
			w = []string{fmt.Sprintf("cookiesweep: unsupported browser %q", b)}
		}
		warnings = append(warnings, w...)

		for _, st := range found {
			if _, ok := seen[st.Path]; ok {
				continue
			}
			seen[st.Path] = struct{}{}
			stores = append(stores, st)
		}
	}
	return stores, warnings
}

// firefoxStores resolves cookies.sqlite files via profiles.ini under the
// platform Firefox roots.
func firefoxStores(override string) ([]*Store, []string) {
	override = strings.TrimSpace(override)
	if override != "" {
		if fi, err := os.Stat(override); err == nil {
			if fi.IsDir() {
				dbPath := filepath.Join(override, "cookies.sqlite")
				if fileExists(dbPath) {
					return []*Store{firefoxStore(dbPath, filepath.Base(override))}, nil
				}
				return nil, []string{fmt.Sprintf("cookiesweep: no cookies.sqlite in %q", override)}
			}
			return []*Store{firefoxStore(override, filepath.Base(filepath.Dir(override)))}, nil
		}
	}

	var out []*Store
	for _, root := range firefoxRoots() {
		cfg, err := ini.Load(filepath.Join(root, "profiles.ini"))
		if err != nil {
			continue
		}

		for _, secName := range cfg.SectionStrings() {
			if !strings.HasPrefix(secName, "Profile") {
				continue
			}
			sec := cfg.Section(secName)
			name := sec.Key("Name").String()
			pathStr := filepath.FromSlash(sec.Key("Path").String())
			if pathStr == "" {
				continue
			}
			if sec.Key("IsRelative").String() == "1" {
				pathStr = filepath.Join(root, pathStr)
			}
			dbPath := filepath.Join(pathStr, "cookies.sqlite")
			if !fileExists(dbPath) {
				continue
			}

			prof := name
			if prof == "" {
				prof = filepath.Base(pathStr)
			}
			if override != "" && prof != override && filepath.Base(pathStr) != override {
				continue
			}
			out = append(out, firefoxStore(dbPath, prof))
		}
	}

	if override != "" && len(out) == 0 {
		return nil, []string{fmt.Sprintf("cookiesweep: firefox profile %q not found", override)}
	}
	return out, nil
}

func firefoxStore(path, profile string) *Store {
	return &Store{Browser: BrowserFirefox, Profile: profile, Path: path}
}

// chromiumStores resolves Cookies files for one Chromium-family vendor: the
// user-data dir's Local State names the profiles, with a Default probe as
// fallback.
func chromiumStores(b Browser, override string) ([]*Store, []string) {
	override = strings.TrimSpace(override)
	if override != "" {
		return chromiumStoresFromOverride(b, override)
	}

	var out []*Store
	var warnings []string
	for _, root := range chromiumUserDataDirs(b) {
		st, w := chromiumStoresFromUserDataDir(b, root)
		warnings = append(warnings, w...)
		out = append(out, st...)
	}
	return out, warnings
}

func chromiumStoresFromUserDataDir(b Browser, userDataDir string) ([]*Store, []string) {
	localStateBytes, err := os.ReadFile(filepath.Join(userDataDir, "Local State"))
	if err != nil {
		return nil, nil
	}

	var localState struct {
		Profile struct {
			InfoCache map[string]struct {
				Name string `json:"name"`
			} `json:"info_cache"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(localStateBytes, &localState); err != nil {
		// Still probe Default.
		return chromiumStoresForProfileDir(b, userDataDir, "Default", "Default"),
			[]string{fmt.Sprintf("cookiesweep: failed to parse Local State (%s): %v", userDataDir, err)}
	}

	var out []*Store
	for profDir, prof := range localState.Profile.InfoCache {
		name := prof.Name
		if name == "" {
			name = profDir
		}
		out = append(out, chromiumStoresForProfileDir(b, userDataDir, profDir, name)...)
	}
	if len(out) == 0 {
		out = chromiumStoresForProfileDir(b, userDataDir, "Default", "Default")
	}
	return out, nil
}

func chromiumStoresForProfileDir(b Browser, userDataDir, profDir, profName string) []*Store {
	// Newer Chromium keeps the store under Network/.
	candidates := []string{
		filepath.Join(userDataDir, profDir, "Network", "Cookies"),
		filepath.Join(userDataDir, profDir, "Cookies"),
	}
	var out []*Store
	for _, p := range candidates {
		if fileExists(p) {
			out = append(out, &Store{Browser: b, Profile: profName, Path: p})
		}
	}
	return out
}

func chromiumStoresFromOverride(b Browser, override string) ([]*Store, []string) {
	if fi, err := os.Stat(override); err == nil {
		if fi.IsDir() {
			st := chromiumStoreFromProfileDir(b, override)
			if st == nil {
				return nil, []string{fmt.Sprintf("cookiesweep: no Cookies store in %q", override)}
			}
			return []*Store{st}, nil
		}
		return chromiumStoreFromDBPath(b, override)
	}

	// Treat the override as a profile name across the known roots.
	var out []*Store
	for _, root := range chromiumUserDataDirs(b) {
		out = append(out, chromiumStoresForProfileDir(b, root, override, override)...)
	}
	if len(out) == 0 {
		return nil, []string{fmt.Sprintf("cookiesweep: %s profile %q not found", b, override)}
	}
	return out, nil
}

func chromiumStoreFromProfileDir(b Browser, profileDir string) *Store {
	candidates := []string{
		filepath.Join(profileDir, "Network", "Cookies"),
		filepath.Join(profileDir, "Cookies"),
	}
	for _, p := range candidates {
		if fileExists(p) {
			return &Store{Browser: b, Profile: filepath.Base(profileDir), Path: p}
		}
	}
	return nil
}

func chromiumStoreFromDBPath(b Browser, dbPath string) ([]*Store, []string) {
	if !fileExists(dbPath) {
		return nil, []string{fmt.Sprintf("cookiesweep: %s store not found at %q", b, dbPath)}
	}
	dir := filepath.Dir(dbPath)
	if filepath.Base(dir) == "Network" {
		dir = filepath.Dir(dir)
	}
	return []*Store{{Browser: b, Profile: filepath.Base(dir), Path: dbPath}}, nil
}
