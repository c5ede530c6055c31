package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScreener/internal/model"
)

func TestSelectWindow_Ranges(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		name string
		w    model.WindowSpec
		want []float64
	}{
		{"last three", model.WindowSpec{From: -2, To: 0}, []float64{3, 4, 5}},
		{"whole series", model.WindowSpec{From: -4, To: 0}, []float64{1, 2, 3, 4, 5}},
		{"last two", model.WindowSpec{From: -1, To: 0}, []float64{4, 5}},
		{"trailing offset", model.WindowSpec{From: -3, To: -1}, []float64{2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectWindow(series, tt.w)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectWindow_Invalid(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		name   string
		series []float64
		w      model.WindowSpec
	}{
		{"start before series", series, model.WindowSpec{From: -5, To: 0}},
		{"single point", series, model.WindowSpec{From: 0, To: 0}},
		{"positive desde", series, model.WindowSpec{From: 1, To: 0}},
		{"positive hasta", series, model.WindowSpec{From: -2, To: 1}},
		{"desde after hasta", series, model.WindowSpec{From: -1, To: -2}},
		{"collapsed trailing window", series, model.WindowSpec{From: -2, To: -2}},
		{"empty series", nil, model.WindowSpec{From: -1, To: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SelectWindow(tt.series, tt.w)
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}
}

func TestSelectWindow_ReturnsCopy(t *testing.T) {
	series := []float64{1, 2, 3}
	got, err := SelectWindow(series, model.WindowSpec{From: -2, To: 0})
	require.NoError(t, err)
	got[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, series)
}

func TestBuildReferenceLine_WorkedExample(t *testing.T) {
	line, err := BuildReferenceLine([]float64{100, 110, 121})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 110.5, 121}, line)
}

func TestBuildReferenceLine_ExactEndpoints(t *testing.T) {
	windows := [][]float64{
		{0.1, 0.7, 0.3, 0.9, 0.35},
		{3.3, 1.1, 7.7},
		{123.456, 98.76, 101.01, 99.99, 87.65, 91.3, 110.2},
	}
	for _, w := range windows {
		line, err := BuildReferenceLine(w)
		require.NoError(t, err)
		assert.Equal(t, w[0], line[0])
		assert.Equal(t, w[len(w)-1], line[len(line)-1])
	}
}

func TestBuildReferenceLine_Errors(t *testing.T) {
	_, err := BuildReferenceLine([]float64{5})
	assert.ErrorIs(t, err, ErrDegenerateWindow)

	_, err = BuildReferenceLine(nil)
	assert.ErrorIs(t, err, ErrDegenerateWindow)

	_, err = BuildReferenceLine([]float64{0, 5, 10})
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = BuildReferenceLine([]float64{1, math.NaN(), 3})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestVariation(t *testing.T) {
	tests := []struct {
		window []float64
		want   float64
	}{
		{[]float64{100, 110, 121}, 21.0},
		{[]float64{50, 60}, 20.0},
		{[]float64{50, 40, 30}, -40.0},
		{[]float64{10, 12, 10}, 0},
		{[]float64{3, 1}, -66.7},
	}
	for _, tt := range tests {
		got, err := Variation(tt.window)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "window %v", tt.window)
	}

	_, err := Variation([]float64{0, 1})
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestScoreDeviation(t *testing.T) {
	tests := []struct {
		name   string
		window []float64
		want   float64
	}{
		{"worked example", []float64{100, 110, 121}, 0.5},
		{"linear rising", []float64{10, 20, 30, 40}, 0},
		{"linear falling", []float64{50, 40, 30}, 0},
		{"flat with spike", []float64{10, 20, 10}, 100.0},
		{"sum exceeds 100", []float64{10, 40, 10}, 300.0},
		{"two points", []float64{7, 9}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := BuildReferenceLine(tt.window)
			require.NoError(t, err)
			got, err := ScoreDeviation(tt.window, line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreDeviation_Errors(t *testing.T) {
	_, err := ScoreDeviation([]float64{1, 2, 3}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrDegenerateWindow)

	_, err = ScoreDeviation([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrDegenerateWindow)

	// the line through -10 and 10 crosses zero at the middle index
	window := []float64{-10, 5, 10}
	line, err := BuildReferenceLine(window)
	require.NoError(t, err)
	_, err = ScoreDeviation(window, line)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestScore_WorkedExample(t *testing.T) {
	variation, deviation, err := Score([]float64{100, 110, 121}, model.WindowSpec{From: -2, To: 0})
	require.NoError(t, err)
	assert.Equal(t, 21.0, variation)
	assert.Equal(t, 0.5, deviation)
}

func TestScore_MinimalWindow(t *testing.T) {
	variation, deviation, err := Score([]float64{80, 90, 50, 60}, model.WindowSpec{From: -1, To: 0})
	require.NoError(t, err)
	assert.Equal(t, 20.0, variation)
	assert.Equal(t, 0.0, deviation)
}

func TestScore_DeterministicAndNonNegative(t *testing.T) {
	series := make([]float64, 60)
	for i := range series {
		series[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i)/2
	}
	for from := -59; from <= -1; from++ {
		w := model.WindowSpec{From: from, To: 0}
		v1, d1, err := Score(series, w)
		require.NoError(t, err)
		v2, d2, err := Score(series, w)
		require.NoError(t, err)
		assert.Equal(t, v1, v2)
		assert.Equal(t, d1, d2)
		assert.GreaterOrEqual(t, d1, 0.0)
	}
}

func TestScore_DegenerateWindow(t *testing.T) {
	_, _, err := Score([]float64{42}, model.WindowSpec{From: 0, To: 0})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.4524886877828038, 0.5},
		{20.999999999999996, 21.0},
		{0.25, 0.2},
		{0.35, 0.4},
		{-12.34, -12.3},
		{149.96, 150.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round1(tt.in), "Round1(%v)", tt.in)
	}
	assert.True(t, math.IsNaN(Round1(math.NaN())))
}

func TestCloses(t *testing.T) {
	bars := []model.OHLCV{{Close: 1.5}, {Close: 2.5}}
	assert.Equal(t, []float64{1.5, 2.5}, Closes(bars))
}
