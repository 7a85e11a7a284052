// Package editor holds the fixed catalog of supported editors and detects
// which of them are installed.
package editor

import "strings"

// Descriptor is static metadata for one supported editor.
type Descriptor struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Command string `json:"command" yaml:"command"`
	// AppName is an alternative display name used for install directories.
	AppName string `json:"appName,omitempty" yaml:"appName,omitempty"`
	// Bundle is the macOS application name passed to "open -a".
	Bundle string `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	// Hints are extra install locations keyed by OS. A leading "~" is the
	// home directory; the last segment may end in "*".
	Hints map[string][]string `json:"-" yaml:"-"`
	// Terminal editors take over the terminal instead of opening a window.
	Terminal bool `json:"terminal,omitempty" yaml:"terminal,omitempty"`
}

var catalog = []Descriptor{
	{
		ID: "vscode", Name: "Visual Studio Code", Command: "code",
		AppName: "Visual Studio Code", Bundle: "Visual Studio Code",
		Hints: map[string][]string{
			"darwin":  {"/Applications/Visual Studio Code.app"},
			"windows": {`~\AppData\Local\Programs\Microsoft VS Code`},
		},
	},
	{
		ID: "cursor", Name: "Cursor", Command: "cursor", Bundle: "Cursor",
		Hints: map[string][]string{
			"darwin":  {"/Applications/Cursor.app"},
			"windows": {`~\AppData\Local\Programs\cursor`},
		},
	},
	{
		ID: "webstorm", Name: "WebStorm", Command: "webstorm", Bundle: "WebStorm",
		Hints: map[string][]string{
			"darwin":  {"/Applications/WebStorm.app"},
			"windows": {`C:\Program Files\JetBrains\WebStorm*`},
		},
	},
	{
		ID: "androidstudio", Name: "Android Studio", Command: "studio", Bundle: "Android Studio",
		Hints: map[string][]string{
			"darwin":  {"/Applications/Android Studio.app"},
			"windows": {`C:\Program Files\Android\Android Studio`},
		},
	},
	{
		ID: "sublime", Name: "Sublime Text", Command: "subl", Bundle: "Sublime Text",
		Hints: map[string][]string{
			"darwin":  {"/Applications/Sublime Text.app"},
			"windows": {`C:\Program Files\Sublime Text*`},
		},
	},
	{
		ID: "atom", Name: "Atom", Command: "atom", Bundle: "Atom",
		Hints: map[string][]string{
			"darwin":  {"/Applications/Atom.app"},
			"windows": {`~\AppData\Local\atom`},
		},
	},
	{ID: "vim", Name: "Vim", Command: "vim", Terminal: true},
	{ID: "emacs", Name: "Emacs", Command: "emacs", Terminal: true},
	{
		ID: "xcode", Name: "Xcode", Command: "xed", Bundle: "Xcode",
		Hints: map[string][]string{
			"darwin": {"/Applications/Xcode.app"},
		},
	},
	{
		ID: "intellij", Name: "IntelliJ IDEA", Command: "idea", Bundle: "IntelliJ IDEA",
		Hints: map[string][]string{
			"darwin":  {"/Applications/IntelliJ IDEA.app", "/Applications/IntelliJ IDEA CE.app"},
			"windows": {`C:\Program Files\JetBrains\IntelliJ IDEA*`},
		},
	},
	{
		ID: "phpstorm", Name: "PhpStorm", Command: "phpstorm", Bundle: "PhpStorm",
		Hints: map[string][]string{
			"darwin":  {"/Applications/PhpStorm.app"},
			"windows": {`C:\Program Files\JetBrains\PhpStorm*`},
		},
	},
	{
		ID: "pycharm", Name: "PyCharm", Command: "pycharm", Bundle: "PyCharm",
		Hints: map[string][]string{
			"darwin":  {"/Applications/PyCharm.app", "/Applications/PyCharm CE.app"},
			"windows": {`C:\Program Files\JetBrains\PyCharm*`},
		},
	},
	{
		ID: "rubymine", Name: "RubyMine", Command: "rubymine", Bundle: "RubyMine",
		Hints: map[string][]string{
			"darwin":  {"/Applications/RubyMine.app"},
			"windows": {`C:\Program Files\JetBrains\RubyMine*`},
		},
	},
	{
		ID: "goland", Name: "GoLand", Command: "goland", Bundle: "GoLand",
		Hints: map[string][]string{
			"darwin":  {"/Applications/GoLand.app"},
			"windows": {`C:\Program Files\JetBrains\GoLand*`},
		},
	},
	{
		ID: "clion", Name: "CLion", Command: "clion", Bundle: "CLion",
		Hints: map[string][]string{
			"darwin":  {"/Applications/CLion.app"},
			"windows": {`C:\Program Files\JetBrains\CLion*`},
		},
	},
	{
		ID: "rider", Name: "Rider", Command: "rider", Bundle: "Rider",
		Hints: map[string][]string{
			"darwin":  {"/Applications/Rider.app"},
			"windows": {`C:\Program Files\JetBrains\JetBrains Rider*`},
		},
	},
	{
		ID: "fleet", Name: "Fleet", Command: "fleet", Bundle: "Fleet",
		Hints: map[string][]string{
			"darwin":  {"/Applications/Fleet.app"},
			"windows": {`~\AppData\Local\JetBrains\Fleet`},
		},
	},
	{
		ID: "nova", Name: "Nova", Command: "nova", Bundle: "Nova",
		Hints: map[string][]string{
			"darwin": {"/Applications/Nova.app"},
		},
	},
	{
		ID: "brackets", Name: "Brackets", Command: "brackets", Bundle: "Brackets",
		Hints: map[string][]string{
			"darwin":  {"/Applications/Brackets.app"},
			"windows": {`C:\Program Files (x86)\Brackets`},
		},
	},
	{
		ID: "notepad++", Name: "Notepad++", Command: "notepad++",
		Hints: map[string][]string{
			"windows": {`C:\Program Files\Notepad++`, `C:\Program Files (x86)\Notepad++`},
		},
	},
	{
		ID: "code-insiders", Name: "VS Code Insiders", Command: "code-insiders",
		Bundle: "Visual Studio Code - Insiders",
		Hints: map[string][]string{
			"darwin":  {"/Applications/Visual Studio Code - Insiders.app"},
			"windows": {`~\AppData\Local\Programs\Microsoft VS Code Insiders`},
		},
	},
	{
		ID: "typora", Name: "Typora", Command: "typora", Bundle: "Typora",
		Hints: map[string][]string{
			"darwin":  {"/Applications/Typora.app"},
			"windows": {`C:\Program Files\Typora`},
		},
	},
	{
		ID: "zed", Name: "Zed", Command: "zed", Bundle: "Zed",
		Hints: map[string][]string{
			"darwin": {"/Applications/Zed.app"},
		},
	},
}

// Catalog returns the supported editors in declaration order.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds an editor by id, ignoring case.
func Lookup(id string) (Descriptor, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// IDs returns every catalog id in declaration order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, d := range catalog {
		ids[i] = d.ID
	}
	return ids
}
