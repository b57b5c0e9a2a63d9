// Package repl implements the interactive read-eval-print loop.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/bmatsuo/golisp/lisp"
	"github.com/chzyer/readline"
)

const prompt = ">> "

// lineReader adapts a readline.Instance, which hands back one edited line
// at a time, into the io.Reader the parser's Scanner pulls from. Read
// blocks for another line whenever the Scanner needs more bytes to
// complete a token or list, so multi-line forms fall out of ordinary
// blocking reads with no separate continuation-buffer state machine.
type lineReader struct {
	rl   *readline.Instance
	buf  []byte
	cont bool
}

func (lr *lineReader) Read(p []byte) (int, error) {
	for len(lr.buf) == 0 {
		if lr.cont {
			lr.rl.SetPrompt(strings.Repeat(" ", len(prompt)))
		} else {
			lr.rl.SetPrompt(prompt)
		}
		line, err := lr.rl.Readline()
		if err != nil {
			return 0, err
		}
		lr.cont = true
		lr.buf = append([]byte(line), '\n')
	}
	n := copy(p, lr.buf)
	lr.buf = lr.buf[n:]
	return n, nil
}

func (lr *lineReader) startForm() {
	lr.cont = false
}

// Run runs the REPL against env until it reads the `exit` symbol as a
// top-level result, the input stream ends, or a parse failure occurs.
// Uncaught evaluation errors are printed and the loop continues with the
// next top-level form.
func Run(env *lisp.Env) error {
	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	lr := &lineReader{rl: rl}
	reader := env.ConfiguredReader()
	if reader == nil {
		return fmt.Errorf("repl: no reader configured")
	}

	for {
		lr.startForm()
		form, rerr := reader.Read(lr)
		if rerr == io.EOF || rerr == readline.ErrInterrupt {
			return nil
		}
		if rerr != nil {
			fmt.Fprint(env.Stderr(), "\nParse failed.\n")
			return nil
		}

		result, evalErr := evalTopRecovered(env, form)
		if evalErr != nil {
			fmt.Fprintf(env.Stderr(), "Exception error: %s\n", evalErr)
			continue
		}
		fmt.Fprintln(env.Stdout(), result)
		if lisp.Eq(result, lisp.Exit()) {
			return nil
		}
	}
}

func evalTopRecovered(env *lisp.Env, form *lisp.Value) (result *lisp.Value, err error) {
	defer lisp.Recover(&err)
	result = lisp.EvalTop(env, form)
	return result, nil
}
