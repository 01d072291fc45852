package patch

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/frantjc/apkpatch"
	"golang.org/x/sync/errgroup"
)

const (
	adaptiveIconCloseTag = "</adaptive-icon>"
)

var (
	// ErrNoAdaptiveIconCloseTag is returned when a monochrome layer has to be
	// inserted into a descriptor that has no closing </adaptive-icon> tag.
	ErrNoAdaptiveIconCloseTag = errors.New("no " + adaptiveIconCloseTag + " tag")

	foregroundRe = layerRe("foreground")
	backgroundRe = layerRe("background")
	monochromeRe = layerRe("monochrome")

	monochromeTagRe = regexp.MustCompile(`<monochrome\b`)
	layerLineRe     = regexp.MustCompile(`^([ \t]*)<(foreground|background)\b`)
)

func layerRe(layer string) *regexp.Regexp {
	return regexp.MustCompile(`(<` + layer + `\b[^>]*?\bandroid:drawable=")[^"]*(")`)
}

// replaceFirst replaces the drawable attribute of the first match of re.
func replaceFirst(re *regexp.Regexp, content, drawable string) string {
	loc := re.FindStringSubmatchIndex(content)
	if loc == nil {
		return content
	}

	return content[:loc[3]] + drawable + content[loc[4]:]
}

// IconState is the set of layers to write into an adaptive icon
// descriptor. A nil layer is left as it is.
type IconState struct {
	Foreground *string
	Background *string
	Monochrome *string
}

// Apply returns content with the layers of s written into it. The
// foreground and background drawables are replaced in place. The
// monochrome drawable is replaced if the layer exists, otherwise a
// monochrome element is inserted on its own line before </adaptive-icon>.
func (s IconState) Apply(content string) (string, error) {
	if s.Foreground != nil {
		content = replaceFirst(foregroundRe, content, *s.Foreground)
	}

	if s.Background != nil {
		content = replaceFirst(backgroundRe, content, *s.Background)
	}

	if s.Monochrome != nil {
		if monochromeTagRe.MatchString(content) {
			content = replaceFirst(monochromeRe, content, *s.Monochrome)
		} else {
			return insertMonochrome(content, *s.Monochrome)
		}
	}

	return content, nil
}

func insertMonochrome(content, drawable string) (string, error) {
	var (
		lines  = strings.Split(content, "\n")
		indent = "    "
		found  = false
		at     = -1
	)

	for i, line := range lines {
		if sub := layerLineRe.FindStringSubmatch(line); sub != nil && !found {
			indent, found = sub[1], true
		}

		if strings.Contains(line, adaptiveIconCloseTag) {
			at = i
			break
		}
	}

	if at < 0 {
		return "", ErrNoAdaptiveIconCloseTag
	}

	var (
		closing    = lines[at]
		monochrome = indent + `<monochrome android:drawable="` + drawable + `" />`
		inserted   = []string{monochrome}
	)

	cr := ""
	if strings.HasSuffix(closing, "\r") {
		cr = "\r"
		inserted[0] += cr
	}

	// The closing tag shares a line with other elements, so split it off.
	if i := strings.Index(closing, adaptiveIconCloseTag); strings.TrimSpace(closing[:i]) != "" {
		inserted = []string{closing[:i] + cr, monochrome + cr, closing[i:]}
		lines = append(lines[:at], append(inserted, lines[at+1:]...)...)
		return strings.Join(lines, "\n"), nil
	}

	lines = append(lines[:at], append(inserted, lines[at:]...)...)
	return strings.Join(lines, "\n"), nil
}

func applyIcon(ctx context.Context, e *Engine) error {
	var (
		log   = apkpatch.LoggerFrom(ctx)
		icon  = e.Config.AppIcon
		state = IconState{
			Foreground: icon.Foreground,
			Background: icon.Background,
			Monochrome: icon.Monochrome,
		}
		names    = make([]string, len(e.iconNames))
		contents = make([]string, len(e.iconNames))
	)

	for i, iconName := range e.iconNames {
		names[i] = e.Tree.AdaptiveIcon(iconName)
	}

	eg, _ := errgroup.WithContext(ctx)
	for i, name := range names {
		eg.Go(func() error {
			var err error
			contents[i], err = readFile(name)
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	for i, name := range names {
		content, err := state.Apply(contents[i])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		contents[i] = content
		log.V(1).Info("patched " + name)
	}

	eg, _ = errgroup.WithContext(ctx)
	for i, name := range names {
		eg.Go(func() error {
			return writeFile(name, contents[i])
		})
	}

	return eg.Wait()
}
