package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real App
// type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Import(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Photo(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Eat(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Today(ctx context.Context) error
	Stats(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	Set(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
	Clear(ctx context.Context) error
}

const helpText = `Available commands:
  import <file.json>            import an Open Food Facts product
  add <name>                    add a food without a barcode
  photo <image> [name]          add a food captured from a photo
  show <barcode>                product details and warnings
  eat <barcode> <grams>         log a consumed portion
  edit <barcode> key=value ...  correct nutrition (calories, sugar, protein, carbs,
                                satfat, salt, fiber, serving, nutriscore, nova)
  history [all|consumed|today]  list products
  today                         today's totals
  stats [days]                  averages and trend (default 7 days)
  profile                       show filter settings
  set <key> <value>             diabetes|pregnancy|allergy|traces on/off,
                                threshold <1-50>, allergens <a,b,...>
  reset                         restore default profile
  clear                         delete all products and consumptions
  exit | quit`

// runREPL reads a line from scanner, parses the first token as the command
// and dispatches to a. The loop exits on scanner EOF or on "exit"/"quit".
//
// Handler errors are reported to the user and the loop continues.
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) {
	for {
		if p := promptFn(); p != "" {
			printlnFn(p)
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var err error
		switch cmd {
		case "help", "?":
			printlnFn(helpText)
		case "import":
			err = a.Import(ctx, args)
		case "add":
			err = a.Add(ctx, args)
		case "photo":
			err = a.Photo(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "eat":
			err = a.Eat(ctx, args)
		case "edit":
			err = a.Edit(ctx, args)
		case "history", "h":
			err = a.History(ctx, args)
		case "today":
			err = a.Today(ctx)
		case "stats":
			err = a.Stats(ctx, args)
		case "profile":
			err = a.Profile(ctx)
		case "set":
			err = a.Set(ctx, args)
		case "reset":
			err = a.Reset(ctx)
		case "clear":
			err = a.Clear(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
