package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type flagKind uint8

const (
	flagBool flagKind = iota + 1
	flagString
)

// FlagSet is a typed flag registry for a command.
type FlagSet struct {
	byLong  map[string]*flagDef
	byShort map[rune]*flagDef
}

type flagDef struct {
	name      string
	shorthand rune
	usage     string
	kind      flagKind

	boolPtr   *bool
	stringPtr *string
}

func newFlagSet() *FlagSet {
	return &FlagSet{
		byLong:  map[string]*flagDef{},
		byShort: map[rune]*flagDef{},
	}
}

// Bool registers a bool flag and returns a pointer to its value.
func (fs *FlagSet) Bool(name string, shorthand rune, def bool, usage string) *bool {
	ptr := new(bool)
	*ptr = def
	fs.add(&flagDef{
		name:      name,
		shorthand: shorthand,
		usage:     usage,
		kind:      flagBool,
		boolPtr:   ptr,
	})
	return ptr
}

// String registers a string flag and returns a pointer to its value.
func (fs *FlagSet) String(name string, shorthand rune, def string, usage string) *string {
	ptr := new(string)
	*ptr = def
	fs.add(&flagDef{
		name:      name,
		shorthand: shorthand,
		usage:     usage,
		kind:      flagString,
		stringPtr: ptr,
	})
	return ptr
}

func (fs *FlagSet) add(def *flagDef) {
	if def.name == "" {
		panic("cli: flag name must be non-empty")
	}
	if _, ok := fs.byLong[def.name]; ok {
		panic("cli: duplicate flag: --" + def.name)
	}
	fs.byLong[def.name] = def
	if def.shorthand != 0 {
		if _, ok := fs.byShort[def.shorthand]; ok {
			panic(fmt.Sprintf("cli: duplicate shorthand flag: -%c", def.shorthand))
		}
		fs.byShort[def.shorthand] = def
	}
}

// parseToken consumes one flag token (and possibly the following value token).
// It returns how many extra argv tokens were consumed.
func (fs *FlagSet) parseToken(token string, argv []string, idx int) (int, error) {
	body := strings.TrimPrefix(token, "-")
	body = strings.TrimPrefix(body, "-") // tolerate --name for any flag
	if body == "" {
		return 0, usageErrorf("unknown flag: %s", token)
	}

	name, value, hasValue := splitFlagValue(body)

	def := fs.byLong[name]
	if def == nil && len([]rune(name)) == 1 {
		def = fs.byShort[[]rune(name)[0]]
	}
	if def == nil {
		return 0, usageErrorf("unknown flag: %s", token)
	}

	if hasValue {
		if err := setFlagValue(def, value); err != nil {
			return 0, usageErrorf("invalid value for %s: %v", displayFlag(def), err)
		}
		return 0, nil
	}

	if def.kind == flagBool {
		// A bare bool flag means true, unless the next token parses as a bool.
		if idx+1 < len(argv) {
			if _, err := strconv.ParseBool(argv[idx+1]); err == nil {
				*def.boolPtr, _ = strconv.ParseBool(argv[idx+1])
				return 1, nil
			}
		}
		*def.boolPtr = true
		return 0, nil
	}

	if idx+1 >= len(argv) || argv[idx+1] == "--" {
		return 0, usageErrorf("flag needs a value: %s", token)
	}
	if err := setFlagValue(def, argv[idx+1]); err != nil {
		return 0, usageErrorf("invalid value for %s: %v", displayFlag(def), err)
	}
	return 1, nil
}

func setFlagValue(def *flagDef, raw string) error {
	switch def.kind {
	case flagBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*def.boolPtr = v
		return nil
	case flagString:
		*def.stringPtr = raw
		return nil
	default:
		return fmt.Errorf("unknown flag kind")
	}
}

func splitFlagValue(s string) (name, value string, ok bool) {
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

func displayFlag(def *flagDef) string {
	if def.shorthand != 0 {
		return fmt.Sprintf("-%c/--%s", def.shorthand, def.name)
	}
	return "--" + def.name
}

type flagHelp struct {
	def  *flagDef
	kind string
}

func flagsForHelp(cmd *Command) []flagHelp {
	var helps []flagHelp
	for _, def := range cmd.Flags().byLong {
		kind := ""
		switch def.kind {
		case flagBool:
			kind = "bool"
		case flagString:
			kind = "string"
		}
		helps = append(helps, flagHelp{def: def, kind: kind})
	}
	sort.Slice(helps, func(i, j int) bool { return helps[i].def.name < helps[j].def.name })
	return helps
}
