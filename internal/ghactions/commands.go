package ghactions

import (
	"fmt"
	"io"
	"strings"
)

var dataEscaper = strings.NewReplacer(
	"%", "%25",
	"\r", "%0D",
	"\n", "%0A",
)

// Commands writes GitHub Actions workflow commands.
// The runner shows them as annotations of the workflow run.
type Commands struct {
	w io.Writer
}

func NewCommands(w io.Writer) *Commands {
	return &Commands{w: w}
}

func (c *Commands) write(command, msg string) {
	fmt.Fprintf(c.w, "::%s::%s\n", command, dataEscaper.Replace(msg))
}

func (c *Commands) Error(msg string) {
	c.write("error", msg)
}

func (c *Commands) Warning(msg string) {
	c.write("warning", msg)
}

func (c *Commands) Notice(msg string) {
	c.write("notice", msg)
}
