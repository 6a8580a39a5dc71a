package bench

import (
	"time"

	"github.com/pkg/errors"
)

// Scope - возможности осциллографа.
type Scope interface {
	Core
	ChannelSelector
	SetCoupling(coupling string) error
	GetCoupling() (string, error)
	SetRange(v float64) error
	GetRange() (float64, error)
	SetOffset(v float64) error
	GetOffset() (float64, error)
	SetDisplay(on bool) error
	GetDisplay() (bool, error)
	SetEdgeTrigger(t EdgeTrigger) error
	AcquireWaveform() (Waveform, error)
}

var _ Scope = (*Oscilloscope)(nil)

// Oscilloscope - типизированный доступ к осциллографу.
type Oscilloscope struct {
	*Instrument
}

// NewOscilloscope создаёт осциллограф поверх сеанса.
func NewOscilloscope(sess *Session, model *Model, opts ...InstrumentOption) (*Oscilloscope, error) {
	if err := checkFamily(model, FamilyOscilloscope); err != nil {
		return nil, err
	}
	inst, err := NewInstrument(sess, model, opts...)
	if err != nil {
		return nil, err
	}
	return &Oscilloscope{Instrument: inst}, nil
}

// View - Instrument.View для осциллографа.
func (o *Oscilloscope) View(k int) (*Oscilloscope, error) {
	v, err := o.Instrument.View(k)
	if err != nil {
		return nil, err
	}
	return &Oscilloscope{Instrument: v}, nil
}

func (o *Oscilloscope) SetCoupling(coupling string) error { return o.Set(OpSetCoupling, coupling) }
func (o *Oscilloscope) GetCoupling() (string, error)      { return o.GetEnum(OpGetCoupling) }

// ToggleCoupling переключает AC/DC текущего канала.
func (o *Oscilloscope) ToggleCoupling() (string, error) {
	return o.Toggle(OpGetCoupling, OpSetCoupling)
}

// SetRange задаёт полный вертикальный диапазон канала: сигнал в пределах ±v/2.
func (o *Oscilloscope) SetRange(v float64) error   { return o.Set(OpSetRange, v) }
func (o *Oscilloscope) GetRange() (float64, error) { return o.GetFloat(OpGetRange) }

func (o *Oscilloscope) SetOffset(v float64) error   { return o.Set(OpSetOffset, v) }
func (o *Oscilloscope) GetOffset() (float64, error) { return o.GetFloat(OpGetOffset) }

// SetAttenuation задаёт коэффициент ослабления пробника.
func (o *Oscilloscope) SetAttenuation(v float64) error   { return o.Set(OpSetAttenuation, v) }
func (o *Oscilloscope) GetAttenuation() (float64, error) { return o.GetFloat(OpGetAttenuation) }

// GetImpedance возвращает входное сопротивление канала; у большинства моделей оно не меняется.
func (o *Oscilloscope) GetImpedance() (string, error) { return o.GetEnum(OpGetImpedance) }

func (o *Oscilloscope) SetDisplay(on bool) error  { return o.Set(OpSetDisplay, on) }
func (o *Oscilloscope) GetDisplay() (bool, error) { return o.GetBool(OpGetDisplay) }

func (o *Oscilloscope) SetBandwidthLimit(on bool) error  { return o.Set(OpSetBandwidthLimit, on) }
func (o *Oscilloscope) GetBandwidthLimit() (bool, error) { return o.GetBool(OpGetBandwidthLimit) }

func (o *Oscilloscope) SetInvert(on bool) error  { return o.Set(OpSetInvert, on) }
func (o *Oscilloscope) GetInvert() (bool, error) { return o.GetBool(OpGetInvert) }

func (o *Oscilloscope) SetUnit(unit string) error { return o.Set(OpSetUnit, unit) }
func (o *Oscilloscope) GetUnit() (string, error)  { return o.GetEnum(OpGetUnit) }

func (o *Oscilloscope) SetSignalType(t string) error { return o.Set(OpSetSignalType, t) }
func (o *Oscilloscope) GetSignalType() (string, error) {
	return o.GetEnum(OpGetSignalType)
}

// SetLabel подписывает текущий канал на экране.
func (o *Oscilloscope) SetLabel(label string) error { return o.Set(OpSetLabel, label) }
func (o *Oscilloscope) GetLabel() (string, error)   { return o.Get(OpGetLabel) }

func (o *Oscilloscope) SetVerticalScale(v float64) error   { return o.Set(OpSetVerticalScale, v) }
func (o *Oscilloscope) GetVerticalScale() (float64, error) { return o.GetFloat(OpGetVerticalScale) }

func (o *Oscilloscope) SetHorizontalScale(v float64) error { return o.Set(OpSetHorizontalScale, v) }
func (o *Oscilloscope) GetHorizontalScale() (float64, error) {
	return o.GetFloat(OpGetHorizontalScale)
}

func (o *Oscilloscope) SetAcquisitionMode(mode string) error {
	return o.Set(OpSetAcquisitionMode, mode)
}
func (o *Oscilloscope) GetAcquisitionMode() (string, error) { return o.GetEnum(OpGetAcquisitionMode) }

// GetSettings возвращает сводку настроек канала в том виде, в каком её отдаёт прибор.
func (o *Oscilloscope) GetSettings() (string, error) { return o.Get(OpGetSettings) }

func (o *Oscilloscope) Run() error    { return o.Set(OpRun) }
func (o *Oscilloscope) Stop() error   { return o.Set(OpStop) }
func (o *Oscilloscope) Single() error { return o.Set(OpSingle) }

// Autoscale запускает встроенное автомасштабирование. Поведение зависит от модели.
func (o *Oscilloscope) Autoscale() error { return o.Set(OpAutoscale) }

// Lock блокирует или разблокирует переднюю панель.
func (o *Oscilloscope) Lock(locked bool) error { return o.Set(OpSetFrontPanelLock, locked) }

// EdgeTrigger - синхронизация по фронту.
type EdgeTrigger struct {
	Source   int // 0 - текущий канал
	Level    float64
	Slope    string // пусто - по нарастающему фронту
	Coupling string // пусто - без изменения
	Sweep    string // пусто - без изменения
}

// SetEdgeTrigger настраивает синхронизацию по фронту. Все команды строятся и проверяются
// до записи первой из них, поэтому ошибка в любом поле не меняет прибор.
func (o *Oscilloscope) SetEdgeTrigger(t EdgeTrigger) error {
	src := t.Source
	if src == 0 {
		src = o.Channel()
	}
	slope := t.Slope
	if slope == "" {
		slope = "rise"
	}

	type step struct {
		op     Op
		values []any
	}
	steps := []step{
		{OpSetTriggerType, []any{"edge"}},
		{OpSetTriggerSource, nil},
		{OpSetTriggerLevel, []any{t.Level}},
		{OpSetTriggerSlope, []any{slope}},
	}
	if t.Coupling != "" {
		steps = append(steps, step{OpSetTriggerCoupling, []any{t.Coupling}})
	}
	if t.Sweep != "" {
		steps = append(steps, step{OpSetTriggerSweep, []any{t.Sweep}})
	}

	cmds := make([]string, 0, len(steps))
	for _, s := range steps {
		c, err := o.resolve(s.op, src, s.values...)
		if err != nil {
			return err
		}
		cmds = append(cmds, c)
	}
	return o.exec(cmds...)
}

func (o *Oscilloscope) GetTriggerLevel() (float64, error) { return o.GetFloat(OpGetTriggerLevel) }
func (o *Oscilloscope) GetTriggerSlope() (string, error)  { return o.GetEnum(OpGetTriggerSlope) }

// AcquireConfig - параметры передачи осциллограммы.
type AcquireConfig struct {
	PointsMode string // пусто - не задаётся; пропускается, если диалект не знает операции
	Points     int    // 0 - не задаётся
	Format     Format
}

// DefaultAcquireConfig - 1000 точек в ASCII в обычном режиме.
func DefaultAcquireConfig() AcquireConfig {
	return AcquireConfig{PointsMode: "normal", Points: 1000, Format: FormatASCII}
}

// AcquireWaveform - AcquireWaveformWith(DefaultAcquireConfig()).
func (o *Oscilloscope) AcquireWaveform() (Waveform, error) {
	return o.AcquireWaveformWith(DefaultAcquireConfig())
}

// AcquireWaveformWith снимает осциллограмму текущего канала: настройка передачи,
// преамбула, данные. Вся последовательность идёт одним обменом. Преамбула читается заново
// при каждом сборе. При расхождении числа точек с преамбулой или превышении
// запрошенного максимума возвращается и осциллограмма, и ErrPointCount.
// Меньшее, чем запрошено, число точек ошибкой не считается: см. Waveform.Short.
func (o *Oscilloscope) AcquireWaveformWith(cfg AcquireConfig) (Waveform, error) {
	d := o.Dialect()
	spec := d.Waveform()
	if spec == nil {
		return Waveform{}, errors.Wrapf(ErrUnsupported, "%s: waveform acquisition", d.Name())
	}
	if cfg.Format != FormatASCII && spec.Binary == nil {
		return Waveform{}, errors.Wrapf(ErrUnsupported, "%s: binary waveform format %s", d.Name(), cfg.Format)
	}
	if cfg.Points < 0 {
		return Waveform{}, validationErrorf("points %d", cfg.Points)
	}

	ch := o.Channel()
	var setup []string
	add := func(op Op, values ...any) error {
		c, err := o.resolve(op, ch, values...)
		if err != nil {
			return err
		}
		setup = append(setup, c)
		return nil
	}
	if cfg.PointsMode != "" && d.Supports(OpSetWaveformPointsMode) {
		if err := add(OpSetWaveformPointsMode, cfg.PointsMode); err != nil {
			return Waveform{}, err
		}
	}
	requested := 0
	if cfg.Points > 0 && d.Supports(OpSetWaveformPoints) {
		if err := add(OpSetWaveformPoints, cfg.Points); err != nil {
			return Waveform{}, err
		}
		requested = cfg.Points
	}
	if err := add(OpSetWaveformFormat, cfg.Format.String()); err != nil {
		return Waveform{}, err
	}
	if err := add(OpSetWaveformSource); err != nil {
		return Waveform{}, err
	}
	preCmd, err := o.resolveQuery(OpGetWaveformPreamble, ch)
	if err != nil {
		return Waveform{}, err
	}
	dataCmd, err := o.resolveQuery(OpGetWaveformData, ch)
	if err != nil {
		return Waveform{}, err
	}

	start := time.Now()
	var wf Waveform
	err = o.Do(func(x Exchange) error {
		for _, c := range setup {
			if err := x.Write(c); err != nil {
				return err
			}
		}
		preText, err := x.Query(preCmd)
		if err != nil {
			return err
		}
		pre, err := ParsePreamble(spec, preText)
		if err != nil {
			return err
		}
		raw, err := x.Query(dataCmd)
		if err != nil {
			return err
		}
		wf, err = DecodeWaveform(spec, pre, raw)
		wf.Channel = ch
		wf.Requested = requested
		if err == nil && requested > 0 && wf.Len() > requested {
			err = errors.Wrapf(ErrPointCount, "requested at most %d points, decoded %d", requested, wf.Len())
		}
		return err
	})
	if err != nil && !errors.Is(err, ErrPointCount) {
		return Waveform{}, err
	}
	if wf.Short() {
		o.log.Info("instrument returned fewer points than requested", "channel", ch, "requested", requested, "points", wf.Len())
	}
	o.log.Debug("waveform acquired", "channel", ch, "points", wf.Len(), "elapsed", time.Since(start))
	return wf, err
}

func checkFamily(m *Model, want Family) error {
	if err := m.validate(); err != nil {
		return err
	}
	if m.Family != want {
		return validationErrorf("model %s is a %s, not a %s", m.Name, m.Family, want)
	}
	return nil
}
