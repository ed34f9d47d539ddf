package artifact

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// fieldSep joins the extracted date fields before they reach time.Parse.
const fieldSep = "|"

// nameFormat matches file names against a strftime format. Literal text is
// matched verbatim and only the directive values are handed to time.Parse,
// so literals may hold digits or Go layout words ("pg15_", "Monday_").
type nameFormat struct {
	re     *regexp.Regexp
	layout string
	zoned  bool
}

// directive is one % conversion, flags included.
type directive struct {
	raw  string
	flag byte
	spec byte
}

func compileFormat(format string) (*nameFormat, error) {
	var (
		expr    strings.Builder
		layouts []string
		lit     strings.Builder
		zoned   bool
	)
	expr.WriteString("^")
	flush := func() {
		expr.WriteString(regexp.QuoteMeta(lit.String()))
		lit.Reset()
	}

	for i := 0; i < len(format); {
		if format[i] != '%' {
			lit.WriteByte(format[i])
			i++
			continue
		}
		d, n := scanDirective(format[i:])
		i += n
		if d.spec == 0 {
			lit.WriteString(d.raw)
			continue
		}
		if d.spec == '%' {
			lit.WriteByte('%')
			continue
		}

		layout, err := strftime.Layout(d.raw)
		if err != nil {
			return nil, err
		}
		frag, ok := fieldPattern(d)
		if !ok {
			return nil, fmt.Errorf("unsupported directive %s", d.raw)
		}
		flush()
		expr.WriteString("(" + frag + ")")
		layouts = append(layouts, layout)
		if d.spec == 'z' {
			zoned = true
		}
	}
	flush()
	expr.WriteString("$")

	if len(layouts) == 0 {
		return nil, fmt.Errorf("no date directives")
	}
	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, err
	}
	return &nameFormat{re: re, layout: strings.Join(layouts, fieldSep), zoned: zoned}, nil
}

// scanDirective reads one directive at the start of s. A dangling or
// malformed % comes back with spec 0 and is treated as literal text.
func scanDirective(s string) (directive, int) {
	i := 1
	var flag byte
	if i < len(s) && (s[i] == '-' || s[i] == ':') {
		flag = s[i]
		i++
	}
	if i < len(s) && (s[i] == 'E' || s[i] == 'O') {
		i++
	}
	if i >= len(s) {
		return directive{raw: s}, len(s)
	}
	return directive{raw: s[:i+1], flag: flag, spec: s[i]}, i + 1
}

func fieldPattern(d directive) (string, bool) {
	switch d.spec {
	case 'Y':
		return `\d{4}`, true
	case 'y':
		return `\d{2}`, true
	case 'm', 'd', 'H', 'I', 'M', 'S':
		if d.flag == '-' {
			return `\d{1,2}`, true
		}
		return `\d{2}`, true
	case 'e':
		return `[ \d]?\d`, true
	case 'j':
		return `\d{3}`, true
	case 'b', 'h', 'a':
		return `[A-Za-z]{3}`, true
	case 'B', 'A':
		return `[A-Za-z]+`, true
	case 'p', 'P':
		return `[AaPp][Mm]`, true
	case 'Z':
		return `[A-Za-z]+`, true
	case 'z':
		if d.flag == ':' {
			return `[+-]\d{2}:\d{2}`, true
		}
		return `[+-]\d{4}`, true
	case 'F':
		return `\d{4}-\d{2}-\d{2}`, true
	case 'T':
		return `\d{2}:\d{2}:\d{2}`, true
	case 'R':
		return `\d{2}:\d{2}`, true
	case 'D':
		return `\d{2}/\d{2}/\d{2}`, true
	}
	return "", false
}

// parse extracts the timestamp from name. Without %z the fields are read
// as UTC.
func (n *nameFormat) parse(name string) (time.Time, error) {
	m := n.re.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, fmt.Errorf("name does not match")
	}
	value := strings.Join(m[1:], fieldSep)
	if n.zoned {
		return time.Parse(n.layout, value)
	}
	return time.ParseInLocation(n.layout, value, time.UTC)
}
