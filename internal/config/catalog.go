package config

// PatternKind says how a pattern template expands to concrete paths.
type PatternKind string

const (
	// KindLiteral is a single path.
	KindLiteral PatternKind = "literal"

	// KindGlob is a filepath.Match-style glob.
	KindGlob PatternKind = "glob"

	// KindApps enumerates installed-application identifiers: the {app}
	// placeholder is replaced by every directory name found under the
	// template prefix that precedes it.
	KindApps PatternKind = "apps"
)

// AppPlaceholder is the template token replaced by application identifiers.
const AppPlaceholder = "{app}"

// Category tags which family of pattern produced a candidate.
type Category string

const (
	CategorySystem  Category = "system"
	CategoryBrowser Category = "browser"
	CategoryIDE     Category = "ide"
	CategoryDev     Category = "dev"
	CategoryProject Category = "project"
)

// Pattern describes where one known cache type lives.
type Pattern struct {
	// Name is the unique identifier for this pattern.
	Name string `yaml:"name"`

	// Path is the template. A leading "~" is the home directory.
	Path string `yaml:"path"`

	// Kind selects the expansion rule; empty means literal.
	Kind PatternKind `yaml:"kind,omitempty"`

	// Category groups related patterns.
	Category Category `yaml:"category"`

	// Description is a human-readable description.
	Description string `yaml:"description,omitempty"`
}

// Catalog is the immutable registry handed to the scanners and the safety
// guard. Copy it with WithExtras rather than mutating the slices.
type Catalog struct {
	Patterns  []Pattern
	Protected []string
}

// WithExtras returns a new catalog with additional patterns and protected
// entries appended.
func (c Catalog) WithExtras(patterns []Pattern, protected []string) Catalog {
	out := Catalog{
		Patterns:  make([]Pattern, 0, len(c.Patterns)+len(patterns)),
		Protected: make([]string, 0, len(c.Protected)+len(protected)),
	}
	out.Patterns = append(append(out.Patterns, c.Patterns...), patterns...)
	out.Protected = append(append(out.Protected, c.Protected...), protected...)
	return out
}

// ByCategory returns the catalog patterns with the given category.
func (c Catalog) ByCategory(category Category) []Pattern {
	var result []Pattern
	for _, p := range c.Patterns {
		if p.Category == category {
			result = append(result, p)
		}
	}
	return result
}

func lit(name, path string, cat Category, desc string) Pattern {
	return Pattern{Name: name, Path: path, Kind: KindLiteral, Category: cat, Description: desc}
}

func glob(name, path string, cat Category, desc string) Pattern {
	return Pattern{Name: name, Path: path, Kind: KindGlob, Category: cat, Description: desc}
}

func apps(name, path string, cat Category, desc string) Pattern {
	return Pattern{Name: name, Path: path, Kind: KindApps, Category: cat, Description: desc}
}

// DefaultCatalog returns the built-in cache locations and protected paths.
func DefaultCatalog() Catalog {
	return Catalog{
		Patterns:  defaultPatterns(),
		Protected: defaultProtected(),
	}
}

func defaultPatterns() []Pattern {
	return []Pattern{
		// ── System / per-app caches (macOS) ─────────────────────
		lit("UserCaches", "~/Library/Caches", CategorySystem, "Per-user application caches"),
		lit("UserLogs", "~/Library/Logs", CategorySystem, "Per-user application logs"),
		apps("AppSupportCache", "~/Library/Application Support/{app}/Cache", CategorySystem, "Application Support caches"),
		apps("AppSupportCaches", "~/Library/Application Support/{app}/Caches", CategorySystem, "Application Support caches"),
		apps("ContainerCaches", "~/Library/Containers/{app}/Data/Library/Caches", CategorySystem, "Sandboxed app container caches"),
		apps("GroupContainerCaches", "~/Library/Group Containers/{app}/Library/Caches", CategorySystem, "Group container caches"),
		apps("WebKitLocalStorage", "~/Library/WebKit/{app}/LocalStorage", CategorySystem, "WebKit local storage"),
		lit("SafariLocalStorage", "~/Library/Safari/LocalStorage", CategoryBrowser, "Safari local storage"),

		// ── System caches (Linux / XDG) ─────────────────────────
		apps("XDGCaches", "~/.cache/{app}", CategorySystem, "XDG per-application caches"),
		lit("Thumbnails", "~/.cache/thumbnails", CategorySystem, "Desktop thumbnail cache"),

		// ── Browsers ────────────────────────────────────────────
		lit("ChromeAppCache", "~/Library/Application Support/Google/Chrome/Default/Application Cache", CategoryBrowser, "Google Chrome application cache"),
		lit("ChromeGPUCache", "~/Library/Application Support/Google/Chrome/Default/GPUCache", CategoryBrowser, "Google Chrome GPU cache"),
		lit("ChromeShaderCache", "~/Library/Application Support/Google/Chrome/Default/ShaderCache", CategoryBrowser, "Google Chrome shader cache"),
		glob("ChromeProfileAppCache", "~/Library/Application Support/Google/Chrome/Profile*/Application Cache", CategoryBrowser, "Google Chrome profile caches"),
		glob("ChromeProfileGPUCache", "~/Library/Application Support/Google/Chrome/Profile*/GPUCache", CategoryBrowser, "Google Chrome profile GPU caches"),
		glob("ChromeHelperCaches", "~/Library/Caches/com.google.Chrome*", CategoryBrowser, "Google Chrome and helper caches"),
		glob("FirefoxCache2", "~/Library/Application Support/Firefox/Profiles/*/cache2", CategoryBrowser, "Mozilla Firefox cache2"),
		glob("FirefoxStartupCache", "~/Library/Application Support/Firefox/Profiles/*/startupCache", CategoryBrowser, "Mozilla Firefox startup cache"),
		lit("FirefoxCaches", "~/Library/Caches/Firefox", CategoryBrowser, "Mozilla Firefox caches"),
		glob("FirefoxLinuxCache", "~/.cache/mozilla/firefox/*/cache2", CategoryBrowser, "Mozilla Firefox cache2 (Linux)"),
		lit("ChromiumLinuxCache", "~/.cache/chromium/Default/Cache", CategoryBrowser, "Chromium cache (Linux)"),
		lit("ChromeLinuxCache", "~/.cache/google-chrome/Default/Cache", CategoryBrowser, "Google Chrome cache (Linux)"),

		// ── IDEs and desktop apps ───────────────────────────────
		glob("VSCodeWorkspaceCaches", "~/Library/Application Support/Code/User/workspaceStorage/*/CachedExtensions*", CategoryIDE, "VS Code workspace extension caches"),
		lit("VSCodeCachedExtensions", "~/Library/Application Support/Code/CachedExtensions", CategoryIDE, "VS Code cached extensions"),
		lit("VSCodeLogs", "~/Library/Application Support/Code/logs", CategoryIDE, "VS Code logs"),
		lit("VSCodeCaches", "~/Library/Caches/com.microsoft.VSCode", CategoryIDE, "VS Code caches"),
		lit("VSCodeLinuxCachedData", "~/.config/Code/CachedData", CategoryIDE, "VS Code cached data (Linux)"),
		glob("XcodeIntermediates", "~/Library/Developer/Xcode/DerivedData/*/Build/Intermediates.noindex", CategoryIDE, "Xcode build intermediates"),
		glob("XcodeIndex", "~/Library/Developer/Xcode/DerivedData/*/Index/DataStore", CategoryIDE, "Xcode index data store"),
		lit("XcodeCaches", "~/Library/Caches/com.apple.dt.Xcode", CategoryIDE, "Xcode caches"),
		glob("JetBrainsCaches", "~/Library/Application Support/JetBrains/*/system/caches", CategoryIDE, "JetBrains IDE caches"),
		glob("JetBrainsTmp", "~/Library/Application Support/JetBrains/*/system/tmp", CategoryIDE, "JetBrains IDE temp files"),
		lit("JetBrainsCacheRoot", "~/Library/Caches/JetBrains", CategoryIDE, "JetBrains caches"),
		lit("UnityCache", "~/Library/Application Support/Unity/cache", CategoryIDE, "Unity editor cache"),
		lit("UnityHubCache", "~/Library/Application Support/Unity Hub/cache", CategoryIDE, "Unity Hub cache"),
		lit("UnityEditorCache", "~/Library/Application Support/Unity/Editor/Cache", CategoryIDE, "Unity editor cache"),
		lit("UnityAssetStore", "~/Library/Application Support/Unity/Asset Store-5.x", CategoryIDE, "Unity Asset Store downloads"),
		lit("SlackCacheStorage", "~/Library/Application Support/Slack/Service Worker/CacheStorage", CategoryIDE, "Slack service worker cache"),
		lit("SlackCache", "~/Library/Application Support/Slack/Cache", CategoryIDE, "Slack cache"),
		lit("DiscordCache", "~/Library/Application Support/discord/Cache", CategoryIDE, "Discord cache"),
		lit("DiscordGPUCache", "~/Library/Application Support/discord/GPUCache", CategoryIDE, "Discord GPU cache"),
		lit("SpotifyCache", "~/Library/Application Support/Spotify/PersistentCache", CategoryIDE, "Spotify offline cache"),
		lit("AdobeMediaCache", "~/Library/Application Support/Adobe/Common/Media Cache Files", CategoryIDE, "Adobe media cache"),
		glob("AdobeCaches", "~/Library/Caches/com.adobe.*", CategoryIDE, "Adobe caches"),
		lit("DockerDataCache", "~/Library/Application Support/Docker/Data/vms/0/data/cache", CategoryIDE, "Docker Desktop data cache"),
		lit("FigmaGPUCache", "~/Library/Application Support/Figma/DesktopProfile/Default/GPUCache", CategoryIDE, "Figma GPU cache"),
		lit("UnityEditorLibraryCache", "~/Library/Caches/com.unity3d.UnityEditor5.x", CategoryIDE, "Unity editor caches"),
		lit("UnityHubLibraryCache", "~/Library/Caches/com.unity3d.unityhub", CategoryIDE, "Unity Hub caches"),
		lit("SlackLibraryCache", "~/Library/Caches/com.tinyspeck.slackmacgap", CategoryIDE, "Slack caches"),
		lit("DiscordLibraryCache", "~/Library/Caches/com.hnc.Discord", CategoryIDE, "Discord caches"),
		lit("SpotifyLibraryCache", "~/Library/Caches/com.spotify.client", CategoryIDE, "Spotify caches"),
		lit("DockerLibraryCache", "~/Library/Caches/com.docker.docker", CategoryIDE, "Docker Desktop caches"),
		lit("FigmaLibraryCache", "~/Library/Caches/com.figma.Desktop", CategoryIDE, "Figma caches"),

		// ── Developer tool caches ───────────────────────────────
		lit("NpmCache", "~/.npm/_cacache", CategoryDev, "npm package cache"),
		lit("YarnCache", "~/.yarn/cache", CategoryDev, "Yarn package cache"),
		lit("YarnLibraryCache", "~/Library/Caches/Yarn", CategoryDev, "Yarn package cache"),
		lit("PipCache", "~/.cache/pip", CategoryDev, "pip package cache"),
		lit("PipLibraryCache", "~/Library/Caches/pip", CategoryDev, "pip package cache"),
		lit("ComposerCache", "~/.composer/cache", CategoryDev, "Composer package cache"),
		lit("CocoaPodsCache", "~/Library/Caches/CocoaPods", CategoryDev, "CocoaPods cache"),
		lit("HomebrewCache", "~/Library/Caches/Homebrew", CategoryDev, "Homebrew download cache"),
		lit("HomebrewVarCache", "/opt/homebrew/var/cache", CategoryDev, "Homebrew var cache (Apple Silicon)"),
		lit("HomebrewTmpCache", "/tmp/homebrew-cache", CategoryDev, "Homebrew temporary cache"),
		lit("NpmLibraryCache", "~/Library/Caches/npm", CategoryDev, "npm cache"),
		lit("GradleModules", "~/.gradle/caches/modules-2", CategoryDev, "Gradle dependency cache"),
		lit("GradleBuildCache", "~/.gradle/caches/build-cache-1", CategoryDev, "Gradle build cache"),
		lit("MavenCache", "~/.m2/repository/.cache", CategoryDev, "Maven resolver cache"),
		lit("CargoCache", "~/.cargo/registry/cache", CategoryDev, "Rust cargo registry cache"),
		lit("GoModCache", "~/go/pkg/mod/cache", CategoryDev, "Go module download cache"),
		lit("GoBuildCache", "~/Library/Caches/go-build", CategoryDev, "Go build cache"),
	}
}

// defaultProtected lists paths that must never be offered for deletion,
// nor any of their ancestors or descendants. A component may be a glob.
func defaultProtected() []string {
	return []string{
		"/System",
		"/Library",
		"/Applications",
		"/bin",
		"/sbin",
		"/usr",
		"/etc",
		"/private/etc",
		"/private/var/db",
		"/var/db",
		"/boot",
		"/lib",
		"/lib64",
		"~/Library/Keychains",
		"~/Library/Preferences",
		"~/Library/LaunchAgents",
		"~/Library/StartupItems",
		"~/Library/Services",
		"~/Library/PreferencePanes",
		"~/Library/PrivateFrameworks",
		"~/Library/Frameworks",
		"~/Library/Audio",
		"~/Library/ColorSync",
		"~/Library/Fonts",
		"~/Library/Keyboard Layouts",
		"~/Library/Printers",
		"~/Library/Screen Savers",
		"~/Library/Sounds",
		"~/Library/Speech",
		"~/Library/Spelling",
		"~/Library/Application Support/com.apple.*",
		"~/Library/Application Support/Apple",
		"~/Library/Application Support/MobileSync",
		"~/Library/Application Support/SyncServices",
		"~/Library/Developer/Xcode/Archives",
		"~/.ssh",
		"~/.gnupg",
		"~/.local/share/keyrings",
		"~/.config/autostart",
	}
}
