package review

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-postcast/internal/domain"
)

// ErrNoDecision is returned when input ends before an answer is read.
var ErrNoDecision = errors.New("review: input closed before a decision was made")

const consolePrompt = "Would you like to approve this post? (yes/no): "

// ConsoleDecider shows each item and reads yes/no answers. Anything else is
// asked again. There is no timeout.
type ConsoleDecider struct {
	in  *bufio.Reader
	out io.Writer
}

var _ DecisionProvider = (*ConsoleDecider)(nil)

// NewConsoleDecider reads answers from in and writes previews to out.
func NewConsoleDecider(in io.Reader, out io.Writer) *ConsoleDecider {
	return &ConsoleDecider{in: bufio.NewReader(in), out: out}
}

func (c *ConsoleDecider) Decide(ctx context.Context, item domain.Item) (Decision, error) {
	fmt.Fprintln(c.out, RenderPreview(item))
	for {
		if err := ctx.Err(); err != nil {
			return Reject, err
		}
		fmt.Fprint(c.out, consolePrompt)

		line, err := c.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "yes", "y":
			fmt.Fprintln(c.out, "Post approved!")
			return Approve, nil
		case "no", "n":
			fmt.Fprintln(c.out, "Post skipped.")
			return Reject, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Reject, ErrNoDecision
			}
			return Reject, err
		}
		fmt.Fprintln(c.out, "Please answer yes or no.")
	}
}
