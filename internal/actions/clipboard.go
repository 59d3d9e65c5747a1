package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the OS clipboard (pbcopy, clip.exe, wl-copy, xclip or xsel).
type SystemClipboard struct{}

func (SystemClipboard) Write(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return nil
}
