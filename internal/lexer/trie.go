package lexer

import "github.com/mehditeymorian/boop/internal/token"

// symbolAlphabet is the fixed set of bytes that can appear in a punctuation
// or operator token, mirroring original_source/src/trie.c's SYMBOL_LIST
// (19 bytes, including the quote character the original kept in its alphabet
// defensively even though the lexer's string scanner always intercepts '"'
// before a symbol run starts).
const symbolAlphabet = `+-*/|=&><%!"^()[],~`

// trieNode is one node of the fixed-fanout operator trie (spec Section
// 4.2). Each node stores an optional terminal Kind; isEnd distinguishes
// "no token ends here" from a zero-value Kind that happens to be ILLEGAL.
type trieNode struct {
	children [len(symbolAlphabet)]*trieNode
	isEnd    bool
	kind     token.Kind
}

// symbolTrie is initialized once from a fixed table of (literal, kind)
// pairs covering every multi-character operator the grammar defines.
type symbolTrie struct {
	root *trieNode
}

// symbolEntry is one literal-to-kind binding used to seed the trie.
type symbolEntry struct {
	symbol string
	kind   token.Kind
}

// operatorTable lists every punctuation and operator literal the trie
// recognizes, longest forms included so the longest-match walk has
// something to prefer over their shorter prefixes.
var operatorTable = []symbolEntry{
	{"(", token.LPAREN}, {")", token.RPAREN},
	{"[", token.LBRACK}, {"]", token.RBRACK},
	{",", token.COMMA},

	{"+", token.ADD}, {"++", token.INC}, {"+=", token.ADD_EQ},
	{"-", token.SUB}, {"--", token.DEC}, {"-=", token.SUB_EQ},
	{"*", token.MUL}, {"*=", token.MUL_EQ},
	{"/", token.DIV}, {"//", token.INTDIV}, {"/=", token.DIV_EQ}, {"//=", token.INTDIV_EQ},
	{"%", token.MOD}, {"%=", token.MOD_EQ},
	{"^", token.CARET}, {"^=", token.CARET_EQ},
	{"~", token.TILDE},
	{"&", token.AMP}, {"&&", token.ANDAND}, {"&=", token.AMP_EQ},
	{"|", token.PIPE}, {"||", token.OROR}, {"|=", token.PIPE_EQ},

	{"=", token.ASSIGN}, {"==", token.EQ},
	{"!", token.NOT}, {"!=", token.NEQ},
	{"<", token.LT}, {"<=", token.LTE}, {"<<", token.SHL},
	{">", token.GT}, {">=", token.GTE}, {">>", token.SHR},
}

func symbolIndex(b byte) int {
	for i := 0; i < len(symbolAlphabet); i++ {
		if symbolAlphabet[i] == b {
			return i
		}
	}
	return -1
}

// isSymbolByte reports whether b can start or continue an operator run.
func isSymbolByte(b byte) bool {
	return symbolIndex(b) != -1
}

func newSymbolTrie() *symbolTrie {
	t := &symbolTrie{root: &trieNode{}}
	for _, e := range operatorTable {
		t.insert(e.symbol, e.kind)
	}
	return t
}

func (t *symbolTrie) insert(symbol string, kind token.Kind) {
	cur := t.root
	for i := 0; i < len(symbol); i++ {
		idx := symbolIndex(symbol[i])
		if idx == -1 {
			// Every literal in operatorTable is drawn from symbolAlphabet;
			// a miss here means the table and the alphabet disagree.
			panic("lexer: operator literal uses a byte outside symbolAlphabet: " + symbol)
		}
		if cur.children[idx] == nil {
			cur.children[idx] = &trieNode{}
		}
		cur = cur.children[idx]
	}
	cur.isEnd = true
	cur.kind = kind
}

// search walks sym byte-by-byte and returns the kind and length of the
// longest terminal prefix. length == 0 means no operator matched at all,
// in which case kind is meaningless. This is what makes "+=" lex as
// ADD_EQ rather than ADD followed by ASSIGN: the walk keeps going past the
// first terminal node and only returns the deepest one it found.
func (t *symbolTrie) search(sym []byte) (kind token.Kind, length int) {
	cur := t.root
	pos := 0
	for pos < len(sym) {
		idx := symbolIndex(sym[pos])
		if idx == -1 || cur.children[idx] == nil {
			break
		}
		cur = cur.children[idx]
		pos++
		if cur.isEnd {
			kind = cur.kind
			length = pos
		}
	}
	return kind, length
}
