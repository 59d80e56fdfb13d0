// ABOUTME: Constrained SQL-subset parser for the document-store backend.
// ABOUTME: Recognizes exactly the query shapes the domain modules emit, never general SQL.
package docstore

import (
	"fmt"
	"strconv"
	"strings"
)

type stmtKind int

const (
	stmtSelect stmtKind = iota
	stmtInsert
	stmtUpdate
	stmtDelete
	stmtAlter
)

type condOp int

const (
	opEq condOp = iota
	opIn
	opBetween
	opIsNull
	opIsNotNull
	opLT
	opLE
	opGT
	opGE
	opLikePrefix
)

// cond is one WHERE predicate. Params records how many placeholders it binds.
type cond struct {
	Column string
	Op     condOp
	Params int
}

type orderBy struct {
	Column string
	Desc   bool
}

// limitClause is either a placeholder or an integer literal.
type limitClause struct {
	Present bool
	Param   bool
	Value   int
}

// statement is the parsed form of a supported query.
type statement struct {
	Kind      stmtKind
	Table     string
	Columns   []string // SELECT projection or INSERT column list
	Count     bool     // SELECT COUNT(*)
	CountAs   string
	Sets      []string // UPDATE SET columns, one placeholder each
	Conds     []cond
	Order     []orderBy
	Limit     limitClause
	Offset    limitClause
	OrReplace bool
	Conflict  string   // ON CONFLICT column, empty when absent
	Merge     []string // DO UPDATE SET columns; empty with Conflict set means DO NOTHING
}

// tokenize splits a query into lowercase-insensitive tokens. Only identifiers,
// placeholders, parentheses, commas, stars, and comparison operators occur in
// the supported subset; string literals never do (all values are parametrized).
func tokenize(query string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(query)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		case c == ',' || c == '(' || c == ')' || c == '?' || c == '*' || c == '=':
			flush()
			tokens = append(tokens, string(c))
		case c == '<' || c == '>':
			flush()
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, string(c)+"=")
				i++
			} else {
				tokens = append(tokens, string(c))
			}
		default:
			cur.WriteRune(c)
		}
	}
	flush()
	return tokens
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) is(kw string) bool {
	return strings.EqualFold(p.peek(), kw)
}

func (p *parser) accept(kw string) bool {
	if p.is(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(kw string) error {
	if !p.accept(kw) {
		return fmt.Errorf("expected %q, got %q", kw, p.peek())
	}
	return nil
}

func (p *parser) ident() (string, error) {
	t := p.next()
	if t == "" || t == "," || t == "(" || t == ")" || t == "?" {
		return "", fmt.Errorf("expected identifier, got %q", t)
	}
	return t, nil
}

// parse translates a supported query into a statement, or fails loudly for
// anything outside the subset.
func parse(query string) (*statement, error) {
	p := &parser{tokens: tokenize(query)}
	switch {
	case p.accept("SELECT"):
		return p.parseSelect()
	case p.accept("INSERT"):
		return p.parseInsert()
	case p.accept("UPDATE"):
		return p.parseUpdate()
	case p.accept("DELETE"):
		return p.parseDelete()
	case p.accept("ALTER"):
		// Schema changes are no-ops on a schemaless store; parse for the table
		// name so callers get an error on anything other than ADD COLUMN.
		if err := p.expect("TABLE"); err != nil {
			return nil, err
		}
		table, err := p.ident()
		if err != nil {
			return nil, err
		}
		if !p.accept("ADD") {
			return nil, fmt.Errorf("unsupported ALTER TABLE form")
		}
		return &statement{Kind: stmtAlter, Table: table}, nil
	default:
		return nil, fmt.Errorf("unsupported statement: %q", query)
	}
}

func (p *parser) parseSelect() (*statement, error) {
	st := &statement{Kind: stmtSelect}

	if p.accept("COUNT") {
		if err := p.expect("("); err != nil {
			return nil, err
		}
		if err := p.expect("*"); err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		st.Count = true
		st.CountAs = "count"
		if p.accept("AS") {
			alias, err := p.ident()
			if err != nil {
				return nil, err
			}
			st.CountAs = alias
		}
	} else if p.accept("*") {
		st.Columns = nil // all columns
	} else {
		for {
			col, err := p.ident()
			if err != nil {
				return nil, err
			}
			st.Columns = append(st.Columns, col)
			if !p.accept(",") {
				break
			}
		}
	}

	if err := p.expect("FROM"); err != nil {
		return nil, err
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	st.Table = table

	if p.accept("WHERE") {
		if err := p.parseConds(st); err != nil {
			return nil, err
		}
	}

	if p.accept("ORDER") {
		if err := p.expect("BY"); err != nil {
			return nil, err
		}
		for {
			col, err := p.ident()
			if err != nil {
				return nil, err
			}
			ob := orderBy{Column: col}
			if p.accept("DESC") {
				ob.Desc = true
			} else {
				p.accept("ASC")
			}
			st.Order = append(st.Order, ob)
			if !p.accept(",") {
				break
			}
		}
		if len(st.Order) > 2 {
			return nil, fmt.Errorf("at most two ORDER BY columns supported")
		}
	}

	if p.accept("LIMIT") {
		lc, err := p.parseLimitValue()
		if err != nil {
			return nil, err
		}
		st.Limit = lc
		if p.accept("OFFSET") {
			oc, err := p.parseLimitValue()
			if err != nil {
				return nil, err
			}
			st.Offset = oc
		}
	}

	if p.peek() != "" {
		return nil, fmt.Errorf("unexpected trailing token %q", p.peek())
	}
	return st, nil
}

func (p *parser) parseLimitValue() (limitClause, error) {
	if p.accept("?") {
		return limitClause{Present: true, Param: true}, nil
	}
	t := p.next()
	n, err := strconv.Atoi(t)
	if err != nil {
		return limitClause{}, fmt.Errorf("expected LIMIT/OFFSET value, got %q", t)
	}
	return limitClause{Present: true, Value: n}, nil
}

func (p *parser) parseConds(st *statement) error {
	for {
		col, err := p.ident()
		if err != nil {
			return err
		}
		c := cond{Column: col}
		switch {
		case p.accept("="):
			if err := p.expect("?"); err != nil {
				return err
			}
			c.Op, c.Params = opEq, 1
		case p.accept("<="):
			if err := p.expect("?"); err != nil {
				return err
			}
			c.Op, c.Params = opLE, 1
		case p.accept(">="):
			if err := p.expect("?"); err != nil {
				return err
			}
			c.Op, c.Params = opGE, 1
		case p.accept("<"):
			if err := p.expect("?"); err != nil {
				return err
			}
			c.Op, c.Params = opLT, 1
		case p.accept(">"):
			if err := p.expect("?"); err != nil {
				return err
			}
			c.Op, c.Params = opGT, 1
		case p.accept("BETWEEN"):
			if err := p.expect("?"); err != nil {
				return err
			}
			if err := p.expect("AND"); err != nil {
				return err
			}
			if err := p.expect("?"); err != nil {
				return err
			}
			c.Op, c.Params = opBetween, 2
		case p.accept("LIKE"):
			if err := p.expect("?"); err != nil {
				return err
			}
			c.Op, c.Params = opLikePrefix, 1
		case p.accept("IN"):
			if err := p.expect("("); err != nil {
				return err
			}
			n := 0
			for {
				if err := p.expect("?"); err != nil {
					return err
				}
				n++
				if !p.accept(",") {
					break
				}
			}
			if err := p.expect(")"); err != nil {
				return err
			}
			c.Op, c.Params = opIn, n
		case p.accept("IS"):
			if p.accept("NOT") {
				c.Op = opIsNotNull
			} else {
				c.Op = opIsNull
			}
			if err := p.expect("NULL"); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported predicate after column %q: %q", col, p.peek())
		}
		st.Conds = append(st.Conds, c)
		if !p.accept("AND") {
			return nil
		}
	}
}

func (p *parser) parseInsert() (*statement, error) {
	st := &statement{Kind: stmtInsert}
	if p.accept("OR") {
		if err := p.expect("REPLACE"); err != nil {
			return nil, err
		}
		st.OrReplace = true
	}
	if err := p.expect("INTO"); err != nil {
		return nil, err
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	st.Table = table

	if err := p.expect("("); err != nil {
		return nil, err
	}
	for {
		col, err := p.ident()
		if err != nil {
			return nil, err
		}
		st.Columns = append(st.Columns, col)
		if !p.accept(",") {
			break
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}

	if err := p.expect("VALUES"); err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	n := 0
	for {
		if err := p.expect("?"); err != nil {
			return nil, err
		}
		n++
		if !p.accept(",") {
			break
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if n != len(st.Columns) {
		return nil, fmt.Errorf("insert: %d columns but %d values", len(st.Columns), n)
	}

	// ON CONFLICT (col) DO UPDATE SET c = excluded.c, ... | DO NOTHING
	if p.accept("ON") {
		if st.OrReplace {
			return nil, fmt.Errorf("INSERT OR REPLACE cannot carry ON CONFLICT")
		}
		if err := p.expect("CONFLICT"); err != nil {
			return nil, err
		}
		if err := p.expect("("); err != nil {
			return nil, err
		}
		col, err := p.ident()
		if err != nil {
			return nil, err
		}
		st.Conflict = col
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		if err := p.expect("DO"); err != nil {
			return nil, err
		}
		if !p.accept("NOTHING") {
			if err := p.expect("UPDATE"); err != nil {
				return nil, err
			}
			if err := p.expect("SET"); err != nil {
				return nil, err
			}
			for {
				col, err := p.ident()
				if err != nil {
					return nil, err
				}
				if err := p.expect("="); err != nil {
					return nil, err
				}
				src, err := p.ident()
				if err != nil {
					return nil, err
				}
				if !strings.EqualFold(src, "excluded."+col) {
					return nil, fmt.Errorf("DO UPDATE supports only excluded.%s, got %q", col, src)
				}
				st.Merge = append(st.Merge, col)
				if !p.accept(",") {
					break
				}
			}
		}
	}

	if p.peek() != "" {
		return nil, fmt.Errorf("unexpected trailing token %q", p.peek())
	}
	return st, nil
}

func (p *parser) parseUpdate() (*statement, error) {
	st := &statement{Kind: stmtUpdate}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	st.Table = table

	if err := p.expect("SET"); err != nil {
		return nil, err
	}
	for {
		col, err := p.ident()
		if err != nil {
			return nil, err
		}
		if err := p.expect("="); err != nil {
			return nil, err
		}
		if err := p.expect("?"); err != nil {
			return nil, err
		}
		st.Sets = append(st.Sets, col)
		if !p.accept(",") {
			break
		}
	}

	if p.accept("WHERE") {
		if err := p.parseConds(st); err != nil {
			return nil, err
		}
	}
	if p.peek() != "" {
		return nil, fmt.Errorf("unexpected trailing token %q", p.peek())
	}
	return st, nil
}

func (p *parser) parseDelete() (*statement, error) {
	st := &statement{Kind: stmtDelete}
	if err := p.expect("FROM"); err != nil {
		return nil, err
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	st.Table = table

	if p.accept("WHERE") {
		if err := p.parseConds(st); err != nil {
			return nil, err
		}
	}
	if p.peek() != "" {
		return nil, fmt.Errorf("unexpected trailing token %q", p.peek())
	}
	return st, nil
}
