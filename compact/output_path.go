package compact

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"cssnum/config"
	"cssnum/state"
)

const outputExt = ".css"

// Values is a struct that holds variables we make available for output name
// template expansion.
type Values struct {
	Context  string
	Name     string // source base name without extension
	Dir      string // source directory relative to input root, slash separated
	Ext      string // source extension
	Minified bool
}

// buildOutputPath returns output file path for stylesheet "src" (relative
// path including file name) under destination directory "dst". Source
// directory structure is kept. When configured, output name template is
// expanded and may introduce additional subdirectories.
func buildOutputPath(src, dst string, env *state.LocalEnv, log *zap.Logger) string {
	outDir := filepath.Join(dst, filepath.Dir(src))
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	if env.Cfg.Compact.OutputNameTemplate == "" {
		return filepath.Join(outDir, cleanPathSegment(base, env)+outputExt)
	}

	expanded, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Compact.OutputNameTemplate, Values{
		Name:     base,
		Dir:      filepath.ToSlash(filepath.Dir(src)),
		Ext:      filepath.Ext(src),
		Minified: env.Minify,
	})
	if err != nil || strings.TrimSpace(expanded) == "" {
		// fallback to default name if template expansion failed
		log.Warn("Unable to prepare output filename", zap.String("template", env.Cfg.Compact.OutputNameTemplate), zap.Error(err))
		return filepath.Join(outDir, cleanPathSegment(base, env)+outputExt)
	}
	return assemblePathWithSubdirs(outDir, filepath.FromSlash(expanded), env)
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output
// path, cleaning and transliterating segments as needed.
func assemblePathWithSubdirs(outDir, expandedName string, env *state.LocalEnv) string {
	segments := splitPath(expandedName)
	if len(segments) == 0 {
		return outDir
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, segment := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	parts = append(parts, cleanPathSegment(strings.TrimSuffix(segments[len(segments)-1], outputExt), env)+outputExt)
	return filepath.Join(parts...)
}

// splitPath splits path into its non-empty elements skipping "." and "..",
// so template output cannot escape destination directory.
func splitPath(path string) []string {
	segments := make([]string, 0, 8)
	for segment := range strings.SplitSeq(path, string(os.PathSeparator)) {
		if segment == "" || segment == "." || segment == ".." {
			continue
		}
		segments = append(segments, segment)
	}
	return slices.Clip(segments)
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Compact.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
