package godeck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayCols(t *testing.T) {
	assert.Equal(t, 2.0, DisplayCols("abcd"))
	assert.Equal(t, 2.0, DisplayCols("売上"))
	assert.Equal(t, 3.0, DisplayCols("売上ab"))
	assert.Equal(t, 0.0, DisplayCols(""))
}

func TestWrapRespectsBudget(t *testing.T) {
	f := NewFitter()
	out := f.Wrap("売上高は前年比で大きく増加しました", 6)
	for _, line := range strings.Split(out, "\n") {
		// Hard splits may land mid-glyph-run but never exceed the
		// budget by more than one column.
		assert.LessOrEqual(t, DisplayCols(line), 7.0, "line %q too wide", line)
	}
}

func TestWrapPreservesExistingNewlines(t *testing.T) {
	f := NewFitter()
	out := f.Wrap("one\ntwo", 40)
	assert.Equal(t, "one\ntwo", out)
}

func TestWrapBreaksAtSpaces(t *testing.T) {
	f := NewFitter()
	out := f.Wrap("alpha beta gamma delta", 6)
	for _, line := range strings.Split(out, "\n") {
		assert.False(t, strings.HasPrefix(line, " "), "line %q starts with space", line)
	}
}

func TestWrapMemoizationIsByteIdentical(t *testing.T) {
	f := NewFitter()
	text := "売上高は前年比120%で増加、利益率も改善した"
	first := f.Wrap(text, 8)
	second := f.Wrap(text, 8)
	require.Equal(t, first, second)
}

func TestWrapDoesNotSplitNumberFromUnit(t *testing.T) {
	f := NewFitter()
	// The naive split lands right between "2" and "%"; the wrapper
	// retreats so the digit keeps its unit glyph.
	out := f.Wrap("あ12%あああ", 2)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.False(t, strings.HasPrefix(line, "%"), "unit glyph stranded on %q", line)
	}
	assert.Contains(t, out, "2%")
}

func TestPreventLeadingPunctuation(t *testing.T) {
	got := PreventLeadingPunctuation("売上が増加\n。次の段落")
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "売上が増加。", lines[0])
	assert.Equal(t, "次の段落", lines[1])
}

func TestPreventLeadingPunctuationKeepsIndent(t *testing.T) {
	got := PreventLeadingPunctuation("項目：内容\n　　、続き")
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "、"))
	assert.True(t, strings.HasPrefix(lines[1], "　　"))
}

func TestPreventLeadingPunctuationDropsEmptiedLines(t *testing.T) {
	got := PreventLeadingPunctuation("本文\n。")
	assert.Equal(t, "本文。", got)
}

func TestFormatColonBulletAlignsContinuations(t *testing.T) {
	f := NewFitter()
	out := f.FormatColonBullet("施策：新規顧客の開拓を強化し、既存顧客の維持率を改善する", 10, 3)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "施策："))
	for _, l := range lines[1:] {
		assert.True(t, strings.HasPrefix(l, "　　　"), "continuation %q not indented", l)
	}
}

func TestFormatColonBulletClampsIndent(t *testing.T) {
	f := NewFitter()
	out := f.FormatColonBullet("a:"+strings.Repeat("あ", 30), 10, 99)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 1)
	// Indent clamps to 8 full-width spaces.
	assert.True(t, strings.HasPrefix(lines[1], strings.Repeat("　", 8)))
	assert.False(t, strings.HasPrefix(lines[1], strings.Repeat("　", 9)))
}

func TestFormatColonBulletWithoutColon(t *testing.T) {
	f := NewFitter()
	out := f.FormatColonBullet("プレーンな箇条書き", 40, 4)
	assert.Equal(t, "プレーンな箇条書き", out)
}

func TestFormatQuoteLinesStripsQuotesAndCaps(t *testing.T) {
	f := NewFitter()
	lines := f.FormatQuoteLines("「"+strings.Repeat("この文章は長い。", 12)+"」", 10)
	require.NotEmpty(t, lines)
	assert.LessOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], Ellipsis))
	assert.False(t, strings.HasPrefix(lines[0], "「"))
}

func TestFormatQuoteLinesShortTextSingleLine(t *testing.T) {
	f := NewFitter()
	lines := f.FormatQuoteLines("“Stay hungry.”", 30)
	require.Len(t, lines, 1)
	assert.Equal(t, "Stay hungry.", lines[0])
}

func TestFitToLinesFitsWithoutShrink(t *testing.T) {
	f := NewFitter()
	res := f.FitToLines("短い", FitOptions{InitialSize: 18, MinSize: 12, BaseCols: 20, MaxLines: 1})
	assert.Equal(t, 18.0, res.FontSize)
	assert.Equal(t, "短い", res.Text)
	assert.Equal(t, 20, res.WrapCols)
}

func TestFitToLinesOverflowEndsAtFloor(t *testing.T) {
	f := NewFitter()
	text := strings.Repeat("あ", 25)
	res := f.FitToLines(text, FitOptions{InitialSize: 20, MinSize: 10, BaseCols: 20, MaxLines: 1})
	// Either the budget is met or the size sits at the floor with a
	// truncated, ellipsis-terminated result.
	assert.Equal(t, 10.0, res.FontSize)
	assert.LessOrEqual(t, lineCount(res.Text), 1)
	assert.True(t, strings.HasSuffix(res.Text, Ellipsis))
}

func TestFitToLinesTruncatesWithEllipsisAtFloor(t *testing.T) {
	f := NewFitter()
	text := strings.Repeat("長い文章", 40)
	res := f.FitToLines(text, FitOptions{InitialSize: 14, MinSize: 12, BaseCols: 10, MaxLines: 2})
	assert.Equal(t, 12.0, res.FontSize)
	assert.LessOrEqual(t, lineCount(res.Text), 2)
	assert.True(t, strings.HasSuffix(res.Text, Ellipsis))
}

func TestFitToLinesSuppressEllipsisReturnsOverflow(t *testing.T) {
	f := NewFitter()
	text := strings.Repeat("長い文章", 40)
	res := f.FitToLines(text, FitOptions{
		InitialSize: 14, MinSize: 12, BaseCols: 10, MaxLines: 2, SuppressEllipsis: true,
	})
	assert.Greater(t, lineCount(res.Text), 2)
	assert.False(t, strings.Contains(res.Text, Ellipsis))
}

func TestFitToLinesHardCharLimit(t *testing.T) {
	f := NewFitter()
	text := strings.Repeat("あ", 100)
	res := f.FitToLines(text, FitOptions{
		InitialSize: 14, MinSize: 14, BaseCols: 10, MaxLines: 1, HardCharLimit: 5,
	})
	runes := []rune(res.Text)
	require.NotEmpty(t, runes)
	assert.LessOrEqual(t, len(runes), 6) // 5 runes + ellipsis
	assert.Equal(t, Ellipsis, string(runes[len(runes)-1]))
}

func TestFitToLinesFractionalFloorUsedExactly(t *testing.T) {
	f := NewFitter()
	o := FitOptions{InitialSize: 12, MinSize: 10, MinFloor: 8.5, BaseCols: 12, MaxLines: 2}
	res := f.FitToLines(strings.Repeat("あ", 40), o)
	assert.Equal(t, 8.5, res.FontSize)
	assert.LessOrEqual(t, lineCount(res.Text), 2)
	assert.Contains(t, res.Text, Ellipsis)

	short := f.FitToLines("短い", o)
	assert.Equal(t, 12.0, short.FontSize)
	assert.NotContains(t, short.Text, Ellipsis)
}

func TestFitToLinesMinFloorExtendsShrink(t *testing.T) {
	f := NewFitter()
	text := strings.Repeat("あ", 30)
	base := FitOptions{InitialSize: 16, MinSize: 14, BaseCols: 16, MaxLines: 1}
	capped := f.FitToLines(text, base)
	floored := base
	floored.MinFloor = 8
	deep := f.FitToLines(text, floored)
	assert.LessOrEqual(t, deep.FontSize, capped.FontSize)
}

func TestFitToLinesMemoized(t *testing.T) {
	f := NewFitter()
	o := FitOptions{InitialSize: 16, MinSize: 10, BaseCols: 12, MaxLines: 2}
	a := f.FitToLines("同一の入力テキストで繰り返し呼び出す", o)
	b := f.FitToLines("同一の入力テキストで繰り返し呼び出す", o)
	assert.Equal(t, a, b)
}

func TestMergeQuotedContinuations(t *testing.T) {
	got := MergeQuotedContinuations([]string{"顧客の声「とても", "使いやすい」", "次の項目"})
	require.Len(t, got, 2)
	assert.Equal(t, "顧客の声「とても使いやすい」", got[0])
	assert.Equal(t, "次の項目", got[1])
}

func TestMergeQuotedContinuationsBalancedUntouched(t *testing.T) {
	items := []string{"「完結した引用」", "別の項目"}
	assert.Equal(t, items, MergeQuotedContinuations(items))
}

func TestSplitBoldRunsPlainText(t *testing.T) {
	segs := SplitBoldRuns("マークアップなし")
	require.Len(t, segs, 1)
	assert.False(t, segs[0].Bold)
	assert.Equal(t, "マークアップなし", segs[0].Text)
}

func TestSplitBoldRuns(t *testing.T) {
	segs := SplitBoldRuns("売上は**前年比120%**に到達")
	require.Len(t, segs, 3)
	assert.Equal(t, TextSegment{Text: "売上は"}, segs[0])
	assert.Equal(t, TextSegment{Text: "前年比120%", Bold: true}, segs[1])
	assert.Equal(t, TextSegment{Text: "に到達"}, segs[2])
}

func TestSplitBoldRunsUnderscoreDelimiters(t *testing.T) {
	segs := SplitBoldRuns("__太字__です")
	require.Len(t, segs, 2)
	assert.Equal(t, TextSegment{Text: "太字", Bold: true}, segs[0])
	assert.Equal(t, TextSegment{Text: "です"}, segs[1])
}

func TestSplitBoldRunsUnmatchedDelimiterStaysLiteral(t *testing.T) {
	segs := SplitBoldRuns("値は**強調されない")
	require.Len(t, segs, 1)
	assert.Equal(t, TextSegment{Text: "値は**強調されない"}, segs[0])
}
