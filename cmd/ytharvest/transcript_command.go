package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"ytharvest/internal/subtitles"
)

func newTranscriptCommand() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:         "transcript <subtitle-file>",
		Short:       "Convert a VTT, SRT, or JSON3 subtitle file to plain text",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the path to a subtitle file. Example: ytharvest transcript video.en.vtt")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			source := strings.TrimSpace(args[0])
			data, err := os.ReadFile(source)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("subtitle file %q not found", source)
				}
				return fmt.Errorf("read subtitle file: %w", err)
			}

			format := subtitles.FileFormat(source)
			if flag := strings.TrimSpace(formatFlag); flag != "" {
				format = subtitles.ParseFormat(flag)
				if format == subtitles.FormatUnknown {
					return fmt.Errorf("unsupported --format %q (expected vtt, srt, or json3)", flag)
				}
			}

			raw := string(data)
			if !utf8.ValidString(raw) {
				raw = strings.ToValidUTF8(raw, "�")
			}
			text := subtitles.Decode(format, raw)
			if text == "" {
				return fmt.Errorf("no transcript text found in %s", source)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Subtitle format (default: detect from extension)")
	return cmd
}
