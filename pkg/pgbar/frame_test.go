package pgbar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testAssembler(style Style, total uint64) assembler {
	cfg := Config{
		Total:   total,
		Style:   style,
		NoColor: true,
	}
	return newAssembler(cfg.withDefaults())
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds  int64
		expected string
	}{
		{0, "0s"},
		{1, "1s"},
		{59, "59s"},
		{60, "1.0m"},
		{61, "1.0m"},
		{90, "1.5m"},
		{539, "8.9m"},
		{540, "9m"},
		{601, "10m"},
		{3599, "59m"},
		{3600, "1.0h"},
		{32401, "9.0h"},
		{35999, "9.9h"},
		{36000, "10h"},
		{356400, "99h"},
		{356401, "99h"},
		{360000, "99h"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			d := time.Duration(tt.seconds) * time.Second
			assert.Equal(t, tt.expected, formatTime(d))
		})
	}
}

func TestShowRate(t *testing.T) {
	a := testAssembler(StyleRate, 100)

	tests := []struct {
		name     string
		interval time.Duration
		expected string
	}{
		{
			name:     "one hertz",
			interval: time.Second,
			expected: "1.00 Hz",
		},
		{
			name:     "just below kilohertz",
			interval: 1000010 * time.Nanosecond,
			expected: "999.99 Hz",
		},
		{
			name:     "exactly one kilohertz",
			interval: time.Millisecond,
			expected: "1.00 kHz",
		},
		{
			name:     "one megahertz",
			interval: time.Microsecond,
			expected: "1.00 MHz",
		},
		{
			name:     "one gigahertz",
			interval: time.Nanosecond,
			expected: "1.00 GHz",
		},
		{
			name:     "zero interval saturates",
			interval: 0,
			expected: "> 1.00 GHz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := a.showRate(tt.interval, true)
			assert.Len(t, rate, rateLen)
			assert.Equal(t, tt.expected, strings.TrimSpace(rate))
		})
	}

	t.Run("pre-first-frame default", func(t *testing.T) {
		rate := a.showRate(0, false)
		assert.Len(t, rate, rateLen)
		assert.Equal(t, "0.00 Hz", strings.TrimSpace(rate))
	})
}

func TestShowPercentage(t *testing.T) {
	a := testAssembler(StylePercentage, 100)

	t.Run("pre-first-frame default is left aligned", func(t *testing.T) {
		assert.Equal(t, "0.00%  ", a.showPercentage(0, false))
	})

	t.Run("values are right aligned", func(t *testing.T) {
		assert.Equal(t, " 50.00%", a.showPercentage(0.5, true))
		assert.Equal(t, "100.00%", a.showPercentage(1, true))
	})

	t.Run("fraction is truncated not rounded", func(t *testing.T) {
		assert.Equal(t, " 99.99%", a.showPercentage(0.99999, true))
	})
}

func TestShowCounter(t *testing.T) {
	a := testAssembler(StyleCounter, 100)

	assert.Equal(t, "  0/100", a.showCounter(0))
	assert.Equal(t, "  7/100", a.showCounter(7))
	assert.Equal(t, " 42/100", a.showCounter(42))
	assert.Equal(t, "100/100", a.showCounter(100))
}

func TestShowCountdown(t *testing.T) {
	a := testAssembler(StyleCountdown, 100)

	t.Run("pre-first-frame default", func(t *testing.T) {
		s := a.showCountdown(0, 0, false)
		assert.Len(t, s, timeLen)
		assert.Equal(t, "0s < 99h", strings.TrimSpace(s))
	})

	t.Run("elapsed and remaining", func(t *testing.T) {
		// 40 done at one second each: 40s elapsed, 60s remaining.
		s := a.showCountdown(time.Second, 40, true)
		assert.Len(t, s, timeLen)
		assert.Equal(t, "40s < 1.0m", strings.TrimSpace(s))
	})

	t.Run("finished", func(t *testing.T) {
		s := a.showCountdown(time.Second, 100, true)
		assert.Equal(t, "1.6m < 0s", strings.TrimSpace(s))
	})
}

func TestShowBar(t *testing.T) {
	a := testAssembler(StyleBar, 100)
	a.barLength = 10
	a.todoChar = " "
	a.doneChar = "-"

	tests := []struct {
		name     string
		fraction float64
		expected string
	}{
		{"empty", 0, "[          ] "},
		{"half", 0.5, "[-----     ] "},
		{"rounds to nearest glyph", 0.55, "[------    ] "},
		{"full", 1, "[----------] "},
		{"overshoot clamps", 1.5, "[----------] "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, a.showBar(tt.fraction))
		})
	}
}

func TestGenerateFrameWidth(t *testing.T) {
	a := testAssembler(StyleEntire, 100)

	// Without escape sequences the byte length equals the column count,
	// so every frame must occupy exactly the same width.
	_, first := a.generate(a.style, 0, 0, 0, false)
	width := len(first)

	frames := []struct {
		fraction float64
		done     uint64
		interval time.Duration
	}{
		{0.01, 1, time.Second},
		{0.5, 50, time.Millisecond},
		{0.99, 99, time.Microsecond},
		{1, 100, 0},
	}

	for _, f := range frames {
		erase, content := a.generate(a.style, f.fraction, f.done, f.interval, true)
		assert.Len(t, content, width)
		assert.Len(t, erase, width)
		assert.Equal(t, strings.Repeat("\b", width), erase)
	}
}

func TestGenerateFirstFrameHasNoErase(t *testing.T) {
	a := testAssembler(StyleEntire, 100)

	erase, content := a.generate(a.style, 0, 0, 0, false)
	assert.Empty(t, erase)
	assert.NotEmpty(t, content)
}

func TestGenerateDividers(t *testing.T) {
	tests := []struct {
		name     string
		style    Style
		dividers int
	}{
		{"all fields", StyleEntire, 3},
		{"two status fields", StylePercentage | StyleCounter, 1},
		{"one status field", StyleCounter, 0},
		{"bar only", StyleBar, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAssembler(tt.style, 100)
			_, content := a.generate(a.style, 0.5, 50, time.Second, true)
			assert.Equal(t, tt.dividers, strings.Count(content, divider))
		})
	}
}

func TestGenerateBarSuppression(t *testing.T) {
	a := testAssembler(StyleEntire, 100)

	// When the bar bit is cleared for a frame, the erase run shrinks to
	// the status region so the previously painted track stays put.
	_, full := a.generate(a.style, 0.5, 50, time.Second, true)
	erase, partial := a.generate(a.style&^StyleBar, 0.5, 50, time.Second, true)

	assert.Less(t, len(partial), len(full))
	assert.Len(t, erase, len(partial))
	assert.NotContains(t, partial, strings.Repeat(a.doneChar, 2))
}

func TestGenerateStatusColor(t *testing.T) {
	cfg := Config{Total: 100, Style: StyleCounter}
	a := newAssembler(cfg.withDefaults())

	_, content := a.generate(a.style, 0.5, 50, time.Second, true)
	assert.True(t, strings.HasPrefix(content, fontBold+string(DyeCyan)))
	assert.True(t, strings.HasSuffix(content, resetColor))
}

func TestSetTotalResizesCounter(t *testing.T) {
	a := testAssembler(StyleCounter, 100)
	assert.Equal(t, len("100/100"), a.cntLength)

	a.setTotal(5000)
	assert.Equal(t, len("5000/5000"), a.cntLength)
	assert.Equal(t, "  17/5000", a.showCounter(17))
}
