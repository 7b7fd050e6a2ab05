// Package printer writes styled, human facing command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/toasty/internal/core/styles"
)

type ctxKey struct{}

// Printer writes one styled line per call.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.SuccessStyle.Render(styles.IconSuccess), format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.InfoStyle.Render(styles.IconInfo), format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.WarningStyle.Render(styles.IconWarning), format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ErrorStyle.Render(styles.IconError), format, args...)
}

func (p *Printer) line(icon, format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", icon, fmt.Sprintf(format, args...))
}
