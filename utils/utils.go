package utils

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/schollz/progressbar/v3"
)

func NewBar(size int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(size,
		progressbar.OptionOnCompletion(func() { fmt.Println() }),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Filters elements of a slice by substring match.
// formatMsg is an optional format string with a single format argument that can be used
// to add context on why the element was skipped
func FilterSubstring(slice []string, substring, formatMsg string) []string {
	if formatMsg == "" {
		formatMsg = "User input '%s' not matching filter, skipping"
	}

	out := make([]string, 0, len(slice))
	for _, s := range slice {
		if !strings.Contains(s, substring) {
			slog.Warn(fmt.Sprintf(formatMsg, s))
			continue
		}
		out = append(out, s)
	}
	return out
}

// Separator maps a separator name to the column delimiter it stands for.
// SHARKweb exports are tab separated by default, but comma and semicolon
// variants exist.
func Separator(name string) (rune, error) {
	switch name {
	case "tab", "\t":
		return '\t', nil
	case "comma", ",":
		return ',', nil
	case "semicolon", ";":
		return ';', nil
	}
	return 0, fmt.Errorf("unknown separator %q, use 'tab', 'comma' or 'semicolon'", name)
}
