package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionGenerator_Apply(t *testing.T) {
	g, sim := newTestGenerator(t, "EDU33212A")
	require.NoError(t, g.Select(2))

	require.NoError(t, g.Apply("square", 1e3, 2.5, -0.5))
	assert.Equal(t, []string{"SOURce2:APPLy:SQU 1000,2.5,-0.5"}, sim.writes())

	err := g.Apply("square", 50e6, 2.5, 0)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, sim.writes(), 1)
}

func TestFunctionGenerator_Settings(t *testing.T) {
	g, sim := newTestGenerator(t, "EDU33211A")

	require.NoError(t, g.SetFunction("ramp"))
	require.NoError(t, g.SetFrequency(12.5e3))
	require.NoError(t, g.SetAmplitude(1))
	require.NoError(t, g.SetOffset(0.25))
	require.NoError(t, g.SetOutput(true))

	fn, err := g.GetFunction()
	require.NoError(t, err)
	assert.Equal(t, "RAMP", fn)

	sim.reply("SOURce1:FREQuency?", "+1.25000000000000E+04")
	f, err := g.GetFrequency()
	require.NoError(t, err)
	assert.InDelta(t, 12.5e3, f, 1e-9)

	off, err := g.GetOffset()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, off, 1e-12)

	sim.reply("OUTPut1?", "1")
	on, err := g.GetOutput()
	require.NoError(t, err)
	assert.True(t, on)

	assert.ErrorIs(t, g.Select(2), ErrChannelRange)
}

func TestFunctionGenerator_OutputLoad(t *testing.T) {
	g, sim := newTestGenerator(t, "EDU33211A")

	require.NoError(t, g.SetOutputLoad("INF"))
	require.NoError(t, g.SetOutputLoad(50))
	assert.Equal(t, []string{"OUTPut1:LOAD INF", "OUTPut1:LOAD 50"}, sim.writes())

	assert.ErrorIs(t, g.SetOutputLoad(0), ErrValidation)
	assert.ErrorIs(t, g.SetOutputLoad("open"), ErrValidation)

	sim.reply("OUTPut1:LOAD?", "+9.9E+37")
	load, err := g.GetOutputLoad()
	require.NoError(t, err)
	assert.InDelta(t, 9.9e37, load, 1e24)
}

func TestFunctionGenerator_Sweep(t *testing.T) {
	g, sim := newTestGenerator(t, "EDU33212A")

	err := g.SetSweep(Sweep{Start: 100, Stop: 10e3, Spacing: "log", Time: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SOURce1:FREQuency:STARt 100",
		"SOURce1:FREQuency:STOP 10000",
		"SOURce1:SWEep:SPACing LOG",
		"SOURce1:SWEep:TIME 2",
		"SOURce1:SWEep:STATe ON",
	}, sim.writes())

	require.NoError(t, g.StopSweep())
	assert.Equal(t, "OFF", sim.get("SOURce1:SWEep:STATe"))
}

func TestFunctionGenerator_SweepValidation(t *testing.T) {
	g, sim := newTestGenerator(t, "EDU33212A")

	assert.ErrorIs(t, g.SetSweep(Sweep{Start: 10e3, Stop: 100, Time: 1}), ErrValidation)
	assert.ErrorIs(t, g.SetSweep(Sweep{Start: 100, Stop: 1e3, Time: 0}), ErrValidation)
	assert.ErrorIs(t, g.SetSweep(Sweep{Start: 100, Stop: 1e3, Time: 1, Spacing: "cubic"}), ErrValidation)
	assert.Empty(t, sim.writes())
}

func TestFunctionGenerator_FrequencyCouplingAndList(t *testing.T) {
	g, sim := newTestGenerator(t, "EDU33212A")

	require.NoError(t, g.SetFrequencyCoupling(true, "ratio"))
	require.NoError(t, g.SetFrequencyCoupling(false, ""))
	require.NoError(t, g.SetFrequencyList([]float64{1e3, 2e3, 5e3}, 0.5))
	assert.Equal(t, []string{
		"SOURce1:FREQuency:COUPle:MODE RAT",
		"SOURce1:FREQuency:COUPle ON",
		"SOURce1:FREQuency:COUPle OFF",
		"SOURce1:LIST:FREQuency 1000,2000,5000",
		"SOURce1:LIST:DWELl 0.5",
	}, sim.writes())

	assert.ErrorIs(t, g.SetFrequencyList(nil, 1), ErrValidation)
}
