package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/pdf2words/pkg/words"
)

// Prompt is a terminal-style Decider reading answers line by line. For each
// candidate it shows the word with its example sentence and accepts:
//
//	k, y          the word is known
//	u, n, <enter> the word is unknown
//	q             stop the session (progress already made is kept)
//
// EOF on the input behaves like q, so piping a short answer file works.
type Prompt struct {
	Out io.Writer
	// AskTranslation enables a follow-up prompt for an optional translation
	// after each unknown verdict.
	AskTranslation bool
	// Total is the number of candidates in this session, used for the
	// "n of m" progress line. 0 hides the counter.
	Total int

	in   *bufio.Reader
	seen int
}

// NewPrompt builds a Prompt reading from in and writing to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{Out: out, in: bufio.NewReader(in)}
}

// SetTotal lets the session announce how many candidates it will offer.
func (p *Prompt) SetTotal(n int) { p.Total = n }

// Decide implements Decider.
func (p *Prompt) Decide(ctx context.Context, c words.Candidate) (Decision, error) {
	p.seen++
	if p.Total > 0 {
		fmt.Fprintf(p.Out, "\n%d of %d (page %d)\n", p.seen, p.Total, c.Page)
	} else {
		fmt.Fprintf(p.Out, "\n(page %d)\n", c.Page)
	}
	fmt.Fprintf(p.Out, "%s = %s\n", c.Word, c.Sentence)

	for {
		fmt.Fprint(p.Out, "[k]nown / [u]nknown / [q]uit: ")
		line, err := p.readLine(ctx)
		if err != nil {
			if err == io.EOF {
				return Decision{}, ErrStopped
			}
			return Decision{}, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "k", "y":
			return Decision{Verdict: Known}, nil
		case "u", "n", "":
			d := Decision{Verdict: Unknown}
			if p.AskTranslation {
				fmt.Fprint(p.Out, "translation (optional): ")
				tr, err := p.readLine(ctx)
				if err != nil && err != io.EOF {
					return Decision{}, err
				}
				d.Translation = strings.TrimSpace(tr)
			}
			return d, nil
		case "q":
			return Decision{}, ErrStopped
		default:
			fmt.Fprintln(p.Out, "please answer k, u or q")
		}
	}
}

func (p *Prompt) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}
