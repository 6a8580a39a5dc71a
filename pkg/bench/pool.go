package bench

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
)

// Pool держит по одному прибору на адрес и открывает их лениво.
// Переподключений пул не делает: сломанный прибор остаётся в пуле,
// пока вызывающий код не удалит его через Remove.
type Pool struct {
	entries  *xsync.MapOf[string, *poolEntry]
	opts     []Option
	instOpts []InstrumentOption
	open     OpenFunc
}

// OpenFunc открывает сеанс по адресу; по умолчанию Open.
type OpenFunc func(address string, opts ...Option) (*Session, error)

type poolEntry struct {
	mu    sync.Mutex
	inst  *Instrument
	model string
}

// NewPool создаёт пул; opts и instOpts применяются к каждому открываемому прибору.
func NewPool(opts []Option, instOpts ...InstrumentOption) *Pool {
	return &Pool{
		entries:  xsync.NewMapOf[string, *poolEntry](),
		opts:     opts,
		instOpts: instOpts,
		open:     Open,
	}
}

// WithOpener подменяет способ открытия сеансов, например для приборов за нестандартным транспортом.
func (p *Pool) WithOpener(open OpenFunc) *Pool {
	p.open = open
	return p
}

// Lookup возвращает уже открытый прибор, не открывая новый.
func (p *Pool) Lookup(address string) (*Instrument, bool) {
	e, ok := p.entries.Load(address)
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inst, e.inst != nil
}

// Get возвращает прибор по адресу, открывая его при первом обращении.
// Модель у одного адреса менять нельзя.
func (p *Pool) Get(address, model string) (*Instrument, error) {
	e, _ := p.entries.LoadOrCompute(address, func() *poolEntry { return &poolEntry{} })

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inst != nil {
		if !strings.EqualFold(e.model, model) {
			return nil, validationErrorf("%s is open as %s, not %s", address, e.model, model)
		}
		return e.inst, nil
	}

	m, err := LookupModel(model)
	if err != nil {
		return nil, err
	}
	sess, err := p.open(address, p.opts...)
	if err != nil {
		return nil, errors.WithMessagef(err, "open %s", address)
	}
	inst, err := NewInstrument(sess, m, p.instOpts...)
	if err != nil {
		sess.Close()
		return nil, errors.WithMessagef(err, "init %s", address)
	}
	e.inst, e.model = inst, m.Name
	return inst, nil
}

// Remove закрывает и забывает прибор. Следующий Get откроет его заново.
func (p *Pool) Remove(address string) error {
	e, ok := p.entries.LoadAndDelete(address)
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inst == nil {
		return nil
	}
	return e.inst.Close()
}

// Addresses возвращает адреса открытых приборов.
func (p *Pool) Addresses() []string {
	var out []string
	p.entries.Range(func(addr string, e *poolEntry) bool {
		e.mu.Lock()
		if e.inst != nil {
			out = append(out, addr)
		}
		e.mu.Unlock()
		return true
	})
	sort.Strings(out)
	return out
}

// CloseAll закрывает все приборы и очищает пул. Возвращает первую ошибку закрытия.
func (p *Pool) CloseAll() error {
	var first error
	p.entries.Range(func(addr string, _ *poolEntry) bool {
		if err := p.Remove(addr); err != nil && first == nil {
			first = err
		}
		return true
	})
	return first
}
