package bench

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/momentics/gobench/pkg/logger"
)

// Core - контракт IEEE-488, общий для всех приборов.
type Core interface {
	Write(cmd string) error
	Read() (string, error)
	Query(cmd string) (string, error)
	ClearStatus() error
	SetESE(bits int) error
	GetESE() (uint8, error)
	GetInfo() (Identity, error)
	Reset() error
	SetOPC() error
	GetOPC() (bool, error)
	Close() error
}

// ChannelSelector - выбор канала, к которому относятся канальные операции.
type ChannelSelector interface {
	Select(k int) error
	Channel() int
	NumChannels() int
}

type instrumentConfig struct {
	now     func() time.Time
	startup bool
}

// InstrumentOption настраивает создание прибора.
type InstrumentOption func(*instrumentConfig) error

// WithClock задаёт источник времени для установки даты и часов прибора при старте.
func WithClock(now func() time.Time) InstrumentOption {
	return func(cfg *instrumentConfig) error {
		if now == nil {
			return errors.Wrap(ErrValidation, "clock is nil")
		}
		cfg.now = now
		return nil
	}
}

// WithoutStartup отключает начальную настройку прибора.
func WithoutStartup() InstrumentOption {
	return func(cfg *instrumentConfig) error {
		cfg.startup = false
		return nil
	}
}

// Instrument - прибор конкретной модели поверх сеанса: диалект плюс выбор канала.
// Канальные операции относятся к текущему каналу. Для независимого выбора канала
// из нескольких горутин используйте View.
type Instrument struct {
	*Session
	model    *Model
	channels *ChannelState
	log      logger.Logger
}

// NewInstrument привязывает модель к сеансу и выполняет начальную настройку диалекта.
func NewInstrument(sess *Session, model *Model, opts ...InstrumentOption) (*Instrument, error) {
	if sess == nil {
		return nil, errors.WithStack(ErrNilSession)
	}
	if err := model.validate(); err != nil {
		return nil, err
	}
	cfg := &instrumentConfig{now: time.Now, startup: true}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	channels, err := NewChannelState(model.Channels)
	if err != nil {
		return nil, err
	}
	inst := &Instrument{
		Session:  sess,
		model:    model,
		channels: channels,
		log:      sess.log.With("model", model.Name),
	}
	if cfg.startup {
		if err := inst.runStartup(cfg.now()); err != nil {
			return nil, errors.WithMessage(err, "startup")
		}
		inst.log.Info("instrument initialized", "dialect", model.Dialect.Name())
	}
	return inst, nil
}

func (i *Instrument) runStartup(now time.Time) error {
	d := i.model.Dialect
	cmds := make([]string, 0, len(d.Startup()))
	for _, op := range d.Startup() {
		c, _ := d.Command(op)
		s, err := i.resolve(op, i.channels.Current(), startupValues(op, c, now)...)
		if err != nil {
			return err
		}
		cmds = append(cmds, s)
	}
	return i.exec(cmds...)
}

// startupValues - дата и время либо тремя целыми, либо строкой, как принимает диалект.
func startupValues(op Op, c Command, now time.Time) []any {
	switch op {
	case OpSetDate:
		if len(c.Params) == 1 {
			return []any{now.Format("2006-01-02")}
		}
		return []any{now.Year(), int(now.Month()), now.Day()}
	case OpSetTime:
		if len(c.Params) == 1 {
			return []any{now.Format("15:04:05")}
		}
		return []any{now.Hour(), now.Minute(), now.Second()}
	}
	return nil
}

// Model возвращает модель прибора.
func (i *Instrument) Model() *Model { return i.model }

// Dialect возвращает диалект команд модели.
func (i *Instrument) Dialect() *Dialect { return i.model.Dialect }

// Select делает канал k текущим. Вне [1, NumChannels] состояние не меняется.
func (i *Instrument) Select(k int) error { return i.channels.Select(k) }

// Channel возвращает текущий канал.
func (i *Instrument) Channel() int { return i.channels.Current() }

// NumChannels возвращает число каналов модели.
func (i *Instrument) NumChannels() int { return i.channels.Count() }

// View возвращает прибор на том же сеансе с собственным выбором канала k.
func (i *Instrument) View(k int) (*Instrument, error) {
	channels, err := NewChannelState(i.model.Channels)
	if err != nil {
		return nil, err
	}
	if err := channels.Select(k); err != nil {
		return nil, err
	}
	v := *i
	v.channels = channels
	return &v, nil
}

// Set выполняет операцию для текущего канала.
func (i *Instrument) Set(op Op, values ...any) error {
	return i.SetAt(i.channels.Current(), op, values...)
}

// SetAt выполняет операцию для канала ch, не меняя выбор.
func (i *Instrument) SetAt(ch int, op Op, values ...any) error {
	cmd, err := i.resolve(op, ch, values...)
	if err != nil {
		return err
	}
	return i.Write(cmd)
}

// Get выполняет запрос для текущего канала и возвращает ответ без кавычек и пробелов.
func (i *Instrument) Get(op Op, values ...any) (string, error) {
	return i.GetAt(i.channels.Current(), op, values...)
}

// GetAt выполняет запрос для канала ch, не меняя выбор.
func (i *Instrument) GetAt(ch int, op Op, values ...any) (string, error) {
	cmd, err := i.resolveQuery(op, ch, values...)
	if err != nil {
		return "", err
	}
	resp, err := i.Query(cmd)
	if err != nil {
		return "", err
	}
	return cleanResponse(resp), nil
}

// GetFloat - Get с разбором числа.
func (i *Instrument) GetFloat(op Op) (float64, error) {
	return i.GetFloatAt(i.channels.Current(), op)
}

// GetFloatAt - GetAt с разбором числа.
func (i *Instrument) GetFloatAt(ch int, op Op) (float64, error) {
	resp, err := i.GetAt(ch, op)
	if err != nil {
		return 0, err
	}
	return parseNumber(op, resp)
}

// GetEnum возвращает канонический токен ответа по таблице ответа команды.
func (i *Instrument) GetEnum(op Op) (string, error) {
	return i.GetEnumAt(i.channels.Current(), op)
}

// GetEnumAt - GetEnum для канала ch.
func (i *Instrument) GetEnumAt(ch int, op Op) (string, error) {
	resp, err := i.GetAt(ch, op)
	if err != nil {
		return "", err
	}
	c, _ := i.model.Dialect.Command(op)
	if c.Reply == nil {
		return resp, nil
	}
	canon, ok := c.Reply.Lookup(resp)
	if !ok {
		return "", protocolErrorf("%s: unexpected reply %q", op, resp)
	}
	return canon, nil
}

// GetBool читает двузначный ответ: первое каноническое значение таблицы означает true.
func (i *Instrument) GetBool(op Op) (bool, error) {
	return i.GetBoolAt(i.channels.Current(), op)
}

// GetBoolAt - GetBool для канала ch.
func (i *Instrument) GetBoolAt(ch int, op Op) (bool, error) {
	c, ok := i.model.Dialect.Command(op)
	if ok && (c.Reply == nil || len(c.Reply.Canonical()) != 2) {
		return false, validationErrorf("%s: reply is not two-valued", op)
	}
	canon, err := i.GetEnumAt(ch, op)
	if err != nil {
		return false, err
	}
	return canon == c.Reply.Canonical()[0], nil
}

// Toggle читает текущее состояние запросом get и записывает противоположное командой set.
// Таблица значений set должна быть двузначной. Чтение и запись идут одним обменом.
// Возвращает записанный канонический токен.
func (i *Instrument) Toggle(get, set Op) (string, error) {
	d := i.model.Dialect
	setC, ok := d.Command(set)
	if !ok {
		return "", errors.Wrapf(ErrUnsupported, "%s: %s", d.Name(), set)
	}
	if len(setC.Params) != 1 || setC.Params[0].Kind != KindEnum || len(setC.Params[0].Aliases.Canonical()) != 2 {
		return "", validationErrorf("%s: %s is not a two-valued setting", d.Name(), set)
	}
	table := setC.Params[0].Aliases
	ch := i.channels.Current()
	getCmdText, err := i.resolveQuery(get, ch)
	if err != nil {
		return "", err
	}

	var next string
	err = i.Do(func(x Exchange) error {
		resp, err := x.Query(getCmdText)
		if err != nil {
			return err
		}
		cur, ok := table.Lookup(cleanResponse(resp))
		if !ok {
			return protocolErrorf("%s: unexpected reply %q", get, resp)
		}
		vals := table.Canonical()
		next = vals[0]
		if cur == vals[0] {
			next = vals[1]
		}
		setText, err := i.resolve(set, ch, next)
		if err != nil {
			return err
		}
		return x.Write(setText)
	})
	if err != nil {
		return "", err
	}
	i.log.Debug("toggled", "op", set, "channel", ch, "value", next)
	return next, nil
}

func (i *Instrument) resolve(op Op, ch int, values ...any) (string, error) {
	if err := i.channels.check(ch); err != nil {
		return "", err
	}
	return i.model.Dialect.Resolve(op, ch, values...)
}

func (i *Instrument) resolveQuery(op Op, ch int, values ...any) (string, error) {
	cmd, err := i.resolve(op, ch, values...)
	if err != nil {
		return "", err
	}
	if c, _ := i.model.Dialect.Command(op); !c.Query() {
		return "", validationErrorf("%s: %s is not a query", i.model.Dialect.Name(), op)
	}
	return cmd, nil
}

// exec записывает команды подряд одним обменом.
func (i *Instrument) exec(cmds ...string) error {
	if len(cmds) == 0 {
		return nil
	}
	return i.Do(func(x Exchange) error {
		for _, c := range cmds {
			if err := x.Write(c); err != nil {
				return err
			}
		}
		return nil
	})
}

func cleanResponse(resp string) string {
	return strings.Trim(strings.TrimSpace(resp), `"`)
}

func parseNumber(op Op, resp string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		return 0, protocolErrorf("%s: %q is not a number", op, resp)
	}
	return v, nil
}
