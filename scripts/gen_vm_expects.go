// Command gen_vm_expects generates the expectVM* wrappers used with
// vmTestCase.apply from the expect methods declared in vm_test.go.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

var (
	in  namedReader    = os.Stdin
	out io.WriteCloser = os.Stdout

	prefix = flag.String("prefix", "expect", "method name prefix to wrap")
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

func openArgs() {
	args := flag.Args()
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			log.Fatalf("failed to open %v: %v", args[0], err)
		}
		in, args = f, args[1:]
	}
	if len(args) > 0 {
		f, err := os.Create(args[0])
		if err != nil {
			log.Fatalf("failed to create %v: %v", args[0], err)
		}
		out = f
	}
}

func main() {
	flag.Parse()
	openArgs()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	ready := make(chan struct{})

	// output is piped through goimports, which also formats it
	eg.Go(func() error {
		fmtr := exec.CommandContext(ctx, "goimports")
		pipe, err := fmtr.StdinPipe()
		if err != nil {
			return err
		}
		defer out.Close()
		fmtr.Stdout = out
		fmtr.Stderr = os.Stderr
		out = pipe
		close(ready)
		if err := fmtr.Run(); err != nil {
			return fmt.Errorf("goimports failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ready:
		}
		defer func() {
			if cerr := in.Close(); rerr == nil {
				rerr = cerr
			}
			if cerr := out.Close(); rerr == nil {
				rerr = cerr
			}
		}()
		methods, err := scanMethods(ctx, in, *prefix)
		if err != nil {
			return err
		}
		return writeWrappers(out, in.Name(), methods)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

type method struct {
	name   string
	params string
	args   []string
}

func scanMethods(ctx context.Context, r io.Reader, prefix string) (methods []method, _ error) {
	pattern := regexp.MustCompile(`^func \(vmt vmTestCase\) (` + regexp.QuoteMeta(prefix) + `.+?)\((.+?)\) vmTestCase`)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		match := pattern.FindStringSubmatch(sc.Text())
		if len(match) == 0 {
			continue
		}
		m := method{name: match[1], params: match[2]}
		for _, param := range strings.Split(m.params, ",") {
			fields := strings.Fields(param)
			if len(fields) != 2 {
				return nil, fmt.Errorf("unsupported parameter list %q", m.params)
			}
			arg := fields[0]
			if strings.HasPrefix(fields[1], "...") {
				arg += "..."
			}
			m.args = append(m.args, arg)
		}
		methods = append(methods, m)
	}
	return methods, sc.Err()
}

func writeWrappers(w io.Writer, source string, methods []method) error {
	var buf bytes.Buffer
	buf.WriteString("package main\n\n")
	fmt.Fprintf(&buf, "// @generated from %v\n\n", source)
	if args := flag.Args(); len(args) >= 2 {
		fmt.Fprintf(&buf, "//go:generate go run scripts/gen_vm_expects.go -- %v\n\n", strings.Join(args, " "))
	}
	for _, m := range methods {
		what := strings.TrimPrefix(m.name, *prefix)
		fmt.Fprintf(&buf, "func %vVM%v(%v) func(vmTestCase) vmTestCase {\n", *prefix, what, m.params)
		fmt.Fprintf(&buf, "\treturn func(vmt vmTestCase) vmTestCase {\n")
		fmt.Fprintf(&buf, "\t\treturn vmt.%v(%v)\n", m.name, strings.Join(m.args, ", "))
		fmt.Fprintf(&buf, "\t}\n}\n\n")
	}
	_, err := buf.WriteTo(w)
	return err
}
