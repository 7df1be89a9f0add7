package service

import "sync"

// accountLocks serializa las secuencias load-mutate-save sobre una misma
// cuenta. Sin esto, dos reenvios concurrentes pueden pisarse el desafio
// vigente. El mapa no se poda: la cardinalidad es la de cuentas activas.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

// lock toma el mutex de la clave dada y devuelve la funcion para soltarlo.
func (l *accountLocks) lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
