package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/intake/pkg/steps"
)

// command is one line typed into the terminal wizard.
type command struct {
	name string
	args []string
	rest string // text after the first argument, verbatim
}

// aliases maps shorthands to canonical command names.
var aliases = map[string]string{
	"?":    "help",
	"h":    "help",
	"v":    "show",
	"view": "show",
	"n":    "next",
	"p":    "back",
	"prev": "back",
	"j":    "jump",
	"s":    "set",
	"t":    "toggle",
	"e":    "estimate",
	"q":    "quit",
	"exit": "quit",
}

const helpText = `Commands:

- ` + "`next`" + ` / ` + "`back`" + `: move one step
- ` + "`jump <step>`" + `: go to an adjacent or visited step
- ` + "`set <path> <value>`" + `: replace an answer (sets take comma separated items)
- ` + "`toggle <path> <item>`" + `: add or remove an item of a set
- ` + "`clear <path>`" + `: empty an answer
- ` + "`estimate`" + `: price the project as described so far
- ` + "`submit`" + `: create the project (last step only)
- ` + "`cancel`" + `: discard the wizard
- ` + "`show`" + `: redraw the current step
- ` + "`quit`" + `: leave, keeping the session for later
`

// parseCommand splits a line into a command. Empty lines yield an empty name.
func parseCommand(line string) command {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}
	}
	name := strings.ToLower(fields[0])
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	cmd := command{name: name, args: fields[1:]}
	if len(fields) > 2 {
		// Value starts after "<name> <path> ".
		afterName := strings.TrimSpace(line[len(fields[0]):])
		cmd.rest = strings.TrimSpace(afterName[len(fields[1]):])
	}
	return cmd
}

// fieldValue converts typed text into the value shape a field expects.
func fieldValue(f *steps.Field, text string) (any, error) {
	switch f.Kind {
	case steps.KindFlag:
		v, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(text)))
		if err != nil {
			return nil, fmt.Errorf("%s expects yes/no as true or false", f.Path)
		}
		return v, nil
	case steps.KindSet:
		var items []string
		for _, item := range strings.Split(text, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if items == nil {
			items = []string{}
		}
		return items, nil
	}
	return text, nil
}

// emptyValue is what "clear" writes for a field.
func emptyValue(f *steps.Field) any {
	switch f.Kind {
	case steps.KindFlag:
		return false
	case steps.KindSet:
		return []string{}
	}
	return ""
}
