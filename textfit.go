package godeck

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/text/width"
)

// Text fitting and line breaking. Widths are measured in full-width
// columns: a CJK rune occupies 1.0 column, everything else 0.5. A
// "cols" budget of 20 therefore holds 20 CJK glyphs or 40 Latin ones.

// Ellipsis is appended when fitted text had to be truncated.
const Ellipsis = "…"

// Characters a line may never begin with (kinsoku shori). Violators
// are reattached to the end of the previous line.
const forbiddenLeading = "、。，．）」』】〉》”’！？：；…ー・,.)]｝}％%!?;:"

// Characters a line may break after.
const breakAfter = "、。！？，；：,.;:!?）)」』】"

func isBreakAfter(r rune) bool {
	return r == ' ' || r == '\t' || strings.ContainsRune(breakAfter, r)
}

func isForbiddenLeading(r rune) bool {
	return strings.ContainsRune(forbiddenLeading, r)
}

// runeCols returns the column width of a single rune.
func runeCols(r rune) float64 {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 1
	default:
		return 0.5
	}
}

// DisplayCols returns the column width of a string.
func DisplayCols(s string) float64 {
	var w float64
	for _, r := range s {
		w += runeCols(r)
	}
	return w
}

// FitResult is the outcome of a shrink-to-fit pass.
type FitResult struct {
	Text     string
	FontSize float64
	WrapCols int
}

// FitOptions parameterizes FitToLines. The zero HardCharLimit and
// MinFloor disable those features.
type FitOptions struct {
	InitialSize      float64
	MinSize          float64
	BaseCols         int // wrap columns at InitialSize
	MaxLines         int
	HardCharLimit    int
	SuppressEllipsis bool
	MinFloor         float64
}

type wrapKey struct {
	cols int
	text string
}

type fitKey struct {
	text string
	opts FitOptions
}

// Fitter wraps and shrink-fits text. Results are memoized for the
// lifetime of the Fitter; one Fitter belongs to one render invocation,
// so caches never leak across runs.
type Fitter struct {
	wrapCache map[wrapKey]string
	fitCache  map[fitKey]FitResult
}

// NewFitter creates an empty Fitter.
func NewFitter() *Fitter {
	return &Fitter{
		wrapCache: make(map[wrapKey]string),
		fitCache:  make(map[fitKey]FitResult),
	}
}

// Wrap breaks text into lines of at most cols columns. It breaks at
// the last breakable character seen in the current line (whitespace or
// break-after punctuation); with no breakable point it hard-splits,
// retreating off digit/unit and decimal-point pairs first. Existing
// newlines are preserved. Memoized by (cols, text).
func (f *Fitter) Wrap(text string, cols int) string {
	if cols <= 0 || text == "" {
		return text
	}
	key := wrapKey{cols: cols, text: text}
	if v, ok := f.wrapCache[key]; ok {
		return v
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		out = append(out, wrapLine(para, float64(cols))...)
	}
	res := strings.Join(out, "\n")
	f.wrapCache[key] = res
	return res
}

func wrapLine(s string, budget float64) []string {
	runes := []rune(s)
	if DisplayCols(s) <= budget {
		return []string{s}
	}
	var lines []string
	start := 0
	w := 0.0
	lastBreak := -1 // index of last breakable rune in current line
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		w += runeCols(r)
		if isBreakAfter(r) {
			lastBreak = i
		}
		if w < budget || i == len(runes)-1 {
			continue
		}
		var cut int
		if lastBreak >= start {
			cut = lastBreak + 1
		} else {
			cut = safeHardSplit(runes, i+1, start)
		}
		line := strings.TrimRight(string(runes[start:cut]), " \t")
		if line != "" {
			lines = append(lines, line)
		}
		start = cut
		i = cut - 1
		w = 0
		lastBreak = -1
	}
	if start < len(runes) {
		rest := strings.TrimRight(string(runes[start:]), " \t")
		if rest != "" {
			lines = append(lines, rest)
		}
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// safeHardSplit retreats a forced split point off unsafe numeric/unit
// pairs: a digit followed by a percent or unit glyph, or a decimal
// point adjacent to digits. Retreat is bounded so a long run of digits
// cannot walk the split back to the line start.
func safeHardSplit(runes []rune, cut, start int) int {
	const maxRetreat = 3
	for n := 0; n < maxRetreat && cut > start+1; n++ {
		if !unsafeSplitAt(runes, cut) {
			break
		}
		cut--
	}
	return cut
}

func unsafeSplitAt(runes []rune, cut int) bool {
	if cut <= 0 || cut >= len(runes) {
		return false
	}
	prev, next := runes[cut-1], runes[cut]
	if isDigit(prev) && isUnitGlyph(next) {
		return true
	}
	if prev == '.' && cut >= 2 && isDigit(runes[cut-2]) && isDigit(next) {
		return true
	}
	if isDigit(prev) && next == '.' && cut+1 < len(runes) && isDigit(runes[cut+1]) {
		return true
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isUnitGlyph(r rune) bool {
	switch r {
	case '%', '％', '¥', '円', '$', '€', '人', '件', '倍', '億', '万':
		return true
	}
	return false
}

// PreventLeadingPunctuation moves forbidden leading glyphs of every
// line after the first onto the end of the previous line, repeating
// until each line starts legally. Indentation prefixes (spaces and
// full-width spaces) are preserved.
func PreventLeadingPunctuation(text string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		for {
			indent, body := splitIndent(lines[i])
			runes := []rune(body)
			if len(runes) == 0 || !isForbiddenLeading(runes[0]) {
				break
			}
			lines[i-1] += string(runes[0])
			lines[i] = indent + string(runes[1:])
		}
	}
	// Drop lines emptied by the reattachment.
	var out []string
	for i, l := range lines {
		if i > 0 && strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

func splitIndent(s string) (string, string) {
	i := 0
	for _, r := range s {
		if r != ' ' && r != '　' && r != '\t' {
			break
		}
		i += len(string(r))
	}
	return s[:i], s[i:]
}

// FormatColonBullet splits a bullet at its first full- or half-width
// colon, wraps only the content portion and indents continuation lines
// with full-width spaces so they align after the colon. The indent is
// clamped to [2,8] columns. Bullets without a colon wrap plainly.
func (f *Fitter) FormatColonBullet(bullet string, maxContentCols, indentCols int) string {
	idx := strings.IndexAny(bullet, "：:")
	if idx < 0 {
		return PreventLeadingPunctuation(f.Wrap(bullet, maxContentCols))
	}
	sepRune, sepLen := utf8.DecodeRuneInString(bullet[idx:])
	sep := string(sepRune)
	title := bullet[:idx]
	content := strings.TrimLeft(bullet[idx+sepLen:], " 　")
	if indentCols < 2 {
		indentCols = 2
	}
	if indentCols > 8 {
		indentCols = 8
	}
	wrapped := PreventLeadingPunctuation(f.Wrap(content, maxContentCols))
	lines := strings.Split(wrapped, "\n")
	indent := strings.Repeat("　", indentCols)
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString(sep)
	sb.WriteString(lines[0])
	for _, l := range lines[1:] {
		sb.WriteString("\n")
		sb.WriteString(indent)
		sb.WriteString(l)
	}
	return sb.String()
}

// Quote glyphs stripped from the outside of quoted text.
const quoteGlyphs = "「」『』“”\"'‘’"

// FormatQuoteLines reflows quoted text into at most four lines.
// Tokenization splits after sentence and comma punctuation so the
// punctuation stays with its fragment; packing tolerates up to 15%
// overflow when that keeps a quoted or punctuation-led fragment whole.
// Truncation appends an ellipsis to the last line.
func (f *Fitter) FormatQuoteLines(text string, cols int) []string {
	s := strings.Trim(strings.TrimSpace(text), quoteGlyphs)
	if s == "" {
		return nil
	}
	budget := float64(cols)
	tokens := splitAfterPunctuation(s)
	var lines []string
	cur := ""
	for _, tok := range tokens {
		joined := cur + tok
		switch {
		case cur == "":
			cur = tok
		case DisplayCols(joined) <= budget:
			cur = joined
		case DisplayCols(joined) <= budget*1.15 && keepIntact(tok):
			cur = joined
		default:
			lines = append(lines, cur)
			cur = tok
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	// Tokens longer than the budget still need wrapping.
	var flat []string
	for _, l := range lines {
		flat = append(flat, strings.Split(f.Wrap(l, cols), "\n")...)
	}
	if len(flat) > 4 {
		flat = flat[:4]
		flat[3] += Ellipsis
	}
	return flat
}

func splitAfterPunctuation(s string) []string {
	var tokens []string
	var cur []rune
	for _, r := range s {
		cur = append(cur, r)
		switch r {
		case '。', '！', '？', '、', '，', ',', '.', '!', '?':
			tokens = append(tokens, string(cur))
			cur = nil
		}
	}
	if len(cur) > 0 {
		tokens = append(tokens, string(cur))
	}
	return tokens
}

func keepIntact(tok string) bool {
	runes := []rune(tok)
	if len(runes) == 0 {
		return false
	}
	first := runes[0]
	return strings.ContainsRune(quoteGlyphs, first) || isForbiddenLeading(first) || isBreakAfter(first)
}

// FitToLines shrinks text until it fits the requested line budget:
// wrap columns scale with the candidate font size
// (round(BaseCols·size/InitialSize)), and the size steps down by one
// point per attempt to MinSize, then on to the optional MinFloor. If
// the floor is reached and the text still overflows, the result is
// either the raw overflow (SuppressEllipsis) or the first MaxLines
// lines with an ellipsis, the last line trimmed to HardCharLimit runes
// first when one is given. Memoized by the full parameter tuple.
func (f *Fitter) FitToLines(text string, o FitOptions) FitResult {
	key := fitKey{text: text, opts: o}
	if v, ok := f.fitCache[key]; ok {
		return v
	}
	res := f.fitToLines(text, o)
	f.fitCache[key] = res
	return res
}

func (f *Fitter) fitToLines(text string, o FitOptions) FitResult {
	if o.InitialSize <= 0 {
		o.InitialSize = 18
	}
	if o.MinSize <= 0 || o.MinSize > o.InitialSize {
		o.MinSize = o.InitialSize
	}
	if o.BaseCols <= 0 {
		o.BaseCols = 20
	}
	if o.MaxLines <= 0 {
		o.MaxLines = 1
	}
	floor := o.MinSize
	if o.MinFloor > 0 && o.MinFloor < floor {
		floor = o.MinFloor
	}
	colsAt := func(size float64) int {
		c := int(math.Round(float64(o.BaseCols) * size / o.InitialSize))
		if c < 1 {
			c = 1
		}
		return c
	}
	var wrapped string
	var cols int
	size := o.InitialSize
	for {
		cols = colsAt(size)
		wrapped = PreventLeadingPunctuation(f.Wrap(text, cols))
		if lineCount(wrapped) <= o.MaxLines {
			return FitResult{Text: wrapped, FontSize: size, WrapCols: cols}
		}
		if size <= floor {
			break
		}
		// Integer steps, but the last attempt lands on the floor
		// exactly even when it is fractional.
		size--
		if size < floor {
			size = floor
		}
	}
	if o.SuppressEllipsis {
		return FitResult{Text: wrapped, FontSize: size, WrapCols: cols}
	}
	lines := strings.Split(wrapped, "\n")
	if len(lines) > o.MaxLines {
		lines = lines[:o.MaxLines]
	}
	last := lines[len(lines)-1]
	if o.HardCharLimit > 0 {
		runes := []rune(last)
		if len(runes) > o.HardCharLimit {
			last = string(runes[:o.HardCharLimit])
		}
	}
	lines[len(lines)-1] = last + Ellipsis
	return FitResult{Text: strings.Join(lines, "\n"), FontSize: size, WrapCols: cols}
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// MergeQuotedContinuations merges consecutive items while an opening
// quote glyph in the accumulated item is unmatched by its closing
// counterpart.
func MergeQuotedContinuations(items []string) []string {
	pairs := map[rune]rune{'「': '」', '『': '』', '“': '”'}
	var out []string
	i := 0
	for i < len(items) {
		cur := items[i]
		i++
		for i < len(items) && quoteImbalance(cur, pairs) {
			cur += items[i]
			i++
		}
		out = append(out, cur)
	}
	return out
}

func quoteImbalance(s string, pairs map[rune]rune) bool {
	counts := map[rune]int{}
	for _, r := range s {
		counts[r]++
	}
	for open, closing := range pairs {
		if counts[open] > counts[closing] {
			return true
		}
	}
	return false
}

// TextSegment is one run of inline text, bold or not.
type TextSegment struct {
	Text string
	Bold bool
}

var boldMarkdown = goldmark.New()

// SplitBoldRuns parses markdown strong emphasis ("**…**") out of a
// line and returns the ordered plain/bold segments. Text without
// markup comes back as a single non-bold segment. CommonMark flanking
// rules reject delimiters sitting between punctuation and a CJK
// letter (e.g. the closing "**" in "**前年比120%**に"), which would
// leak literal asterisks into slide text; when the parse leaves
// delimiters behind, the line is re-split on paired delimiters
// directly.
func SplitBoldRuns(text string) []TextSegment {
	if !strings.Contains(text, "**") && !strings.Contains(text, "__") {
		return []TextSegment{{Text: text}}
	}
	segs := parseStrongRuns(text)
	for _, s := range segs {
		if strings.Contains(s.Text, "**") || strings.Contains(s.Text, "__") {
			segs = splitPairedDelimiters(text)
			break
		}
	}
	if len(segs) == 0 {
		return []TextSegment{{Text: text}}
	}
	return segs
}

func parseStrongRuns(text string) []TextSegment {
	src := []byte(text)
	doc := boldMarkdown.Parser().Parse(gmtext.NewReader(src))
	var segs []TextSegment
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			seg := TextSegment{Text: string(t.Segment.Value(src)), Bold: hasStrongAncestor(t)}
			if seg.Text != "" {
				segs = append(segs, seg)
			}
		}
		return ast.WalkContinue, nil
	})
	return segs
}

// splitPairedDelimiters splits on matched "**"/"__" pairs without any
// flanking restrictions. Unmatched delimiters stay literal.
func splitPairedDelimiters(text string) []TextSegment {
	var segs []TextSegment
	rest := text
	for {
		open, delim := firstDelimiter(rest)
		if open < 0 {
			break
		}
		end := strings.Index(rest[open+2:], delim)
		if end < 0 {
			break
		}
		if open > 0 {
			segs = append(segs, TextSegment{Text: rest[:open]})
		}
		if inner := rest[open+2 : open+2+end]; inner != "" {
			segs = append(segs, TextSegment{Text: inner, Bold: true})
		}
		rest = rest[open+2+end+2:]
	}
	if rest != "" {
		segs = append(segs, TextSegment{Text: rest})
	}
	return segs
}

func firstDelimiter(s string) (int, string) {
	star := strings.Index(s, "**")
	under := strings.Index(s, "__")
	switch {
	case star < 0:
		return under, "__"
	case under < 0 || star < under:
		return star, "**"
	default:
		return under, "__"
	}
}

func hasStrongAncestor(n ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if em, ok := p.(*ast.Emphasis); ok && em.Level >= 2 {
			return true
		}
	}
	return false
}
