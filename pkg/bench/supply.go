package bench

// Supply - возможности источника питания.
type Supply interface {
	Core
	ChannelSelector
	Apply(voltage, current float64) error
	SetOutput(on bool) error
	SetOutputAll(on bool) error
	MeasureVoltage() (float64, error)
	MeasureCurrent() (float64, error)
	Status() ([]ChannelStatus, error)
	SetDisplayText(text string) error
}

var _ Supply = (*PowerSupply)(nil)

// ChannelStatus - уставки и состояние выхода одного канала.
type ChannelStatus struct {
	Channel int     `json:"channel"`
	Output  bool    `json:"output"`
	Voltage float64 `json:"voltage"`
	Current float64 `json:"current"`
}

type PowerSupply struct {
	*Instrument
}

func NewPowerSupply(sess *Session, model *Model, opts ...InstrumentOption) (*PowerSupply, error) {
	if err := checkFamily(model, FamilyPowerSupply); err != nil {
		return nil, err
	}
	inst, err := NewInstrument(sess, model, opts...)
	if err != nil {
		return nil, err
	}
	return &PowerSupply{Instrument: inst}, nil
}

func (p *PowerSupply) View(k int) (*PowerSupply, error) {
	v, err := p.Instrument.View(k)
	if err != nil {
		return nil, err
	}
	return &PowerSupply{Instrument: v}, nil
}

// Apply задаёт напряжение и ограничение тока текущего канала.
// Значения вне паспортных пределов канала отклоняются до записи.
func (p *PowerSupply) Apply(voltage, current float64) error {
	ch := p.Channel()
	if err := p.checkVoltage(ch, voltage); err != nil {
		return err
	}
	if err := p.checkCurrent(ch, current); err != nil {
		return err
	}
	return p.Set(OpApply, voltage, current)
}

func (p *PowerSupply) SetVoltage(v float64) error {
	if err := p.checkVoltage(p.Channel(), v); err != nil {
		return err
	}
	return p.Set(OpSetVoltage, v)
}

func (p *PowerSupply) GetVoltage() (float64, error) { return p.GetFloat(OpGetVoltage) }

func (p *PowerSupply) SetCurrent(a float64) error {
	if err := p.checkCurrent(p.Channel(), a); err != nil {
		return err
	}
	return p.Set(OpSetCurrent, a)
}

func (p *PowerSupply) GetCurrent() (float64, error) { return p.GetFloat(OpGetCurrent) }

func (p *PowerSupply) MeasureVoltage() (float64, error) { return p.GetFloat(OpMeasureVoltage) }
func (p *PowerSupply) MeasureCurrent() (float64, error) { return p.GetFloat(OpMeasureCurrent) }

func (p *PowerSupply) SetOutput(on bool) error  { return p.Set(OpSetOutput, on) }
func (p *PowerSupply) GetOutput() (bool, error) { return p.GetBool(OpGetOutput) }

// SetOutputAll включает или выключает все каналы одним обменом.
func (p *PowerSupply) SetOutputAll(on bool) error {
	cmds := make([]string, 0, p.NumChannels())
	for ch := 1; ch <= p.NumChannels(); ch++ {
		c, err := p.resolve(OpSetOutput, ch, on)
		if err != nil {
			return err
		}
		cmds = append(cmds, c)
	}
	return p.exec(cmds...)
}

// Status читает уставки и состояние выхода всех каналов. Текущий канал не меняется.
func (p *PowerSupply) Status() ([]ChannelStatus, error) {
	n := p.NumChannels()
	type queries struct{ output, voltage, current string }
	qs := make([]queries, n)
	for k := 1; k <= n; k++ {
		var err error
		q := &qs[k-1]
		if q.output, err = p.resolveQuery(OpGetOutput, k); err != nil {
			return nil, err
		}
		if q.voltage, err = p.resolveQuery(OpGetVoltage, k); err != nil {
			return nil, err
		}
		if q.current, err = p.resolveQuery(OpGetCurrent, k); err != nil {
			return nil, err
		}
	}
	outputTable := OnOffAliases
	if c, ok := p.Dialect().Command(OpGetOutput); ok && c.Reply != nil {
		outputTable = c.Reply
	}

	status := make([]ChannelStatus, n)
	err := p.Do(func(x Exchange) error {
		for i, q := range qs {
			st := ChannelStatus{Channel: i + 1}
			resp, err := x.Query(q.output)
			if err != nil {
				return err
			}
			canon, ok := outputTable.Lookup(cleanResponse(resp))
			if !ok {
				return protocolErrorf("%s: unexpected reply %q", OpGetOutput, resp)
			}
			st.Output = canon == outputTable.Canonical()[0]
			if resp, err = x.Query(q.voltage); err != nil {
				return err
			}
			if st.Voltage, err = parseNumber(OpGetVoltage, resp); err != nil {
				return err
			}
			if resp, err = x.Query(q.current); err != nil {
				return err
			}
			if st.Current, err = parseNumber(OpGetCurrent, resp); err != nil {
				return err
			}
			status[i] = st
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// SetDisplayText выводит текст на экран, не длиннее 30 символов.
func (p *PowerSupply) SetDisplayText(text string) error { return p.Set(OpSetDisplayText, text) }
func (p *PowerSupply) GetDisplayText() (string, error)  { return p.Get(OpGetDisplayText) }
func (p *PowerSupply) ClearDisplayText() error          { return p.Set(OpClearDisplayText) }

// SetScreen включает или гасит экран.
func (p *PowerSupply) SetScreen(on bool) error  { return p.Set(OpSetScreen, on) }
func (p *PowerSupply) GetScreen() (bool, error) { return p.GetBool(OpGetScreen) }

// Remote переводит прибор в дистанционный режим, передняя панель блокируется.
func (p *PowerSupply) Remote() error { return p.Set(OpRemote) }

func (p *PowerSupply) checkVoltage(ch int, v float64) error {
	if lim, ok := p.Model().Limit(ch); ok && (v < lim.Voltage.Min || v > lim.Voltage.Max) {
		return validationErrorf("channel %d: voltage %g not in [%g, %g]", ch, v, lim.Voltage.Min, lim.Voltage.Max)
	}
	return nil
}

func (p *PowerSupply) checkCurrent(ch int, a float64) error {
	if lim, ok := p.Model().Limit(ch); ok && (a < lim.Current.Min || a > lim.Current.Max) {
		return validationErrorf("channel %d: current %g not in [%g, %g]", ch, a, lim.Current.Min, lim.Current.Max)
	}
	return nil
}
