package config

import (
	"path"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
)

// DefaultDebounce is the watch debounce window used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// Tool names referenced by the asset recipes.
const (
	ToolSass      = "sass"
	ToolPostCSS   = "postcss"
	ToolCSSNano   = "cssnano"
	ToolSVGSprite = "svgSprite"
	ToolModernizr = "modernizr"
	ToolESBuild   = "esbuild"
	ToolMsgfmt    = "msgfmt"
	ToolStylelint = "stylelint"
	ToolJSHint    = "jshint"
	ToolPHPCS     = "phpcs"
)

// DefaultDirs returns the asset directory layout used without configuration.
func DefaultDirs() domain.Dirs {
	return domain.Dirs{
		Generated: "scss/autogenerated",
		Assets:    "img",
		Scripts:   "js",
		Styles:    "scss",
		Languages: "languages",
		Templates: "templates",
	}
}

// DefaultTools returns the tool command lines for the directory layout dirs.
func DefaultTools(dirs domain.Dirs) map[string]domain.Tool {
	return map[string]domain.Tool{
		ToolSass: {
			Cmd:        []string{"sass", "--stdin", "--load-path={dir}", "--load-path=node_modules", "--style=expanded"},
			Dev:        []string{"--embed-source-map"},
			Production: []string{"--no-source-map"},
		},
		ToolPostCSS: {
			Cmd: []string{"postcss", "--use", "autoprefixer"},
			Dev: []string{"--map"},
		},
		ToolCSSNano: {
			Cmd: []string{"postcss", "--use", "cssnano", "--no-map"},
		},
		ToolSVGSprite: {
			Cmd: []string{
				"svg-sprite",
				"--symbol",
				"--symbol-dest=.",
				"--symbol-inline",
				"--symbol-prefix=.u-svg-%s",
				"--symbol-dimensions=-size",
				"--symbol-sprite=" + path.Join(dirs.Assets, "sprite.svg"),
				"--symbol-render-css",
				"--symbol-render-css-dest=" + path.Join(dirs.Generated, "svg-sprite.css"),
			},
		},
		ToolModernizr: {
			Cmd: []string{"modernizr-crawl", "--set-classes", "--class-prefix=js-supports-", "--minify"},
		},
		ToolESBuild: {
			Cmd:        []string{"esbuild", "--bundle", "--target=es2015"},
			Dev:        []string{"--sourcemap=inline"},
			Production: []string{"--minify"},
		},
		ToolMsgfmt: {
			Cmd: []string{"msgfmt", "--output-file=-", "-"},
		},
		ToolStylelint: {
			Cmd: []string{"stylelint", "--formatter=string"},
			TTY: true,
		},
		ToolJSHint: {
			Cmd: []string{"jshint"},
			TTY: true,
		},
		ToolPHPCS: {
			Cmd: []string{"vendor/bin/phpcs", "--standard=./phpcs.xml", "--report=full"},
			TTY: true,
		},
	}
}

// DefaultProject returns the project rooted at root without any configuration.
func DefaultProject(root string) *domain.Project {
	dirs := DefaultDirs()
	return &domain.Project{
		Root:         root,
		SettingsFile: domain.DefaultSettingsFile,
		Dirs:         dirs,
		Debounce:     DefaultDebounce,
		ServeDir:     ".",
		Tools:        DefaultTools(dirs),
	}
}
