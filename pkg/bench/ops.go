package bench

// Op - абстрактная операция общего словаря. Диалект сопоставляет ей шаблон команды.
// Имена Get* - запросы, ответ на которые читается в том же обмене.
type Op string

// Канал осциллографа.
const (
	OpSetCoupling       Op = "channel.coupling.set"
	OpGetCoupling       Op = "channel.coupling.get"
	OpSetRange          Op = "channel.range.set"
	OpGetRange          Op = "channel.range.get"
	OpSetOffset         Op = "channel.offset.set"
	OpGetOffset         Op = "channel.offset.get"
	OpSetAttenuation    Op = "channel.attenuation.set"
	OpGetAttenuation    Op = "channel.attenuation.get"
	OpGetImpedance      Op = "channel.impedance.get"
	OpSetDisplay        Op = "channel.display.set"
	OpGetDisplay        Op = "channel.display.get"
	OpSetBandwidthLimit Op = "channel.bwlimit.set"
	OpGetBandwidthLimit Op = "channel.bwlimit.get"
	OpSetInvert         Op = "channel.invert.set"
	OpGetInvert         Op = "channel.invert.get"
	OpSetUnit           Op = "channel.unit.set"
	OpGetUnit           Op = "channel.unit.get"
	OpSetSignalType     Op = "channel.signal-type.set"
	OpGetSignalType     Op = "channel.signal-type.get"
	OpSetLabel          Op = "channel.label.set"
	OpGetLabel          Op = "channel.label.get"
	OpSetVerticalScale  Op = "channel.scale.set"
	OpGetVerticalScale  Op = "channel.scale.get"
	OpGetSettings       Op = "channel.settings.get"
)

// Развёртка, сбор данных и передняя панель.
const (
	OpSetHorizontalScale    Op = "timebase.scale.set"
	OpGetHorizontalScale    Op = "timebase.scale.get"
	OpSetAcquisitionMode    Op = "acquire.mode.set"
	OpGetAcquisitionMode    Op = "acquire.mode.get"
	OpRun                   Op = "run"
	OpStop                  Op = "stop"
	OpSingle                Op = "single"
	OpAutoscale             Op = "autoscale"
	OpSetFrontPanelLock     Op = "front-panel.lock.set"
	OpGetFrontPanelLock     Op = "front-panel.lock.get"
	OpSetTriggerType        Op = "trigger.type.set"
	OpSetTriggerSource      Op = "trigger.source.set"
	OpSetTriggerLevel       Op = "trigger.level.set"
	OpGetTriggerLevel       Op = "trigger.level.get"
	OpSetTriggerSlope       Op = "trigger.slope.set"
	OpGetTriggerSlope       Op = "trigger.slope.get"
	OpSetTriggerCoupling    Op = "trigger.coupling.set"
	OpSetTriggerSweep       Op = "trigger.sweep.set"
	OpSetWaveformPoints     Op = "waveform.points.set"
	OpSetWaveformPointsMode Op = "waveform.points-mode.set"
	OpSetWaveformFormat     Op = "waveform.format.set"
	OpSetWaveformSource     Op = "waveform.source.set"
	OpGetWaveformPreamble   Op = "waveform.preamble.get"
	OpGetWaveformData       Op = "waveform.data.get"
)

// Генератор сигналов.
const (
	OpSetFunction        Op = "source.function.set"
	OpGetFunction        Op = "source.function.get"
	OpSetFrequency       Op = "source.frequency.set"
	OpGetFrequency       Op = "source.frequency.get"
	OpSetAmplitude       Op = "source.amplitude.set"
	OpGetAmplitude       Op = "source.amplitude.get"
	OpSetSourceOffset    Op = "source.offset.set"
	OpGetSourceOffset    Op = "source.offset.get"
	OpSetOutput          Op = "output.set"
	OpGetOutput          Op = "output.get"
	OpSetOutputLoad      Op = "output.load.set"
	OpGetOutputLoad      Op = "output.load.get"
	OpApply              Op = "apply"
	OpSetSweepStart      Op = "sweep.start.set"
	OpSetSweepStop       Op = "sweep.stop.set"
	OpSetSweepSpacing    Op = "sweep.spacing.set"
	OpSetSweepTime       Op = "sweep.time.set"
	OpSetSweepState      Op = "sweep.state.set"
	OpGetSweepState      Op = "sweep.state.get"
	OpSetFrequencyCouple Op = "frequency.couple.set"
	OpSetFrequencyMode   Op = "frequency.couple-mode.set"
	OpSetListFrequency   Op = "list.frequency.set"
	OpSetListDwell       Op = "list.dwell.set"
)

// Источник питания. OpApply и OpSetOutput/OpGetOutput общие с генератором.
const (
	OpSetVoltage       Op = "supply.voltage.set"
	OpGetVoltage       Op = "supply.voltage.get"
	OpSetCurrent       Op = "supply.current.set"
	OpGetCurrent       Op = "supply.current.get"
	OpMeasureVoltage   Op = "supply.measure.voltage"
	OpMeasureCurrent   Op = "supply.measure.current"
	OpSetScreen        Op = "display.state.set"
	OpGetScreen        Op = "display.state.get"
	OpSetDisplayText   Op = "display.text.set"
	OpGetDisplayText   Op = "display.text.get"
	OpClearDisplayText Op = "display.text.clear"
	OpRemote           Op = "system.remote"
)

// Операции начальной настройки, выполняются при создании прибора.
const (
	OpHeaderOff Op = "startup.header-off"
	OpSetDate   Op = "startup.date"
	OpSetTime   Op = "startup.time"
)
