package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompter reads answers line by line from the command's stdin.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints label and returns the trimmed answer. It returns io.EOF only
// when stdin is exhausted before any input.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// fill asks for *dst only when it is empty.
func (p *prompter) fill(dst *string, label string) error {
	if *dst != "" {
		return nil
	}
	v, err := p.ask(label)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
