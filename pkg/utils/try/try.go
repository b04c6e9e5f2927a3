package try

// Fataler is anything with a Fatal method, like *testing.T or log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either wraps a (value, error) pair.
//
// When the error is nil the Either is "ok" and the value is valid;
// otherwise only the error is meaningful.
type Either[T any] interface {
	// Get returns the wrapped pair.
	Get() (T, error)

	// OrFatal returns the value, or calls ftl.Fatal with the error.
	//
	// If ftl has a Helper method (as *testing.T does), it is called
	// before Fatal.
	OrFatal(ftl Fataler) T

	// OrDefault returns the value, or the given default on error.
	OrDefault(T) T
}

// To converts a conventional (value, error) return into an Either.
func To[T any](ok T, ng error) Either[T] {
	if ng == nil {
		return tryOk[T]{ok}
	}
	return tryNg[T]{ng}
}

type tryOk[T any] struct {
	value T
}

type tryNg[T any] struct {
	err error
}

func (ok tryOk[T]) Get() (T, error) { return ok.value, nil }

func (ng tryNg[T]) Get() (T, error) { return *new(T), ng.err }

func (ok tryOk[T]) OrDefault(T) T { return ok.value }

func (ng tryNg[T]) OrDefault(d T) T { return d }

func (ok tryOk[T]) OrFatal(Fataler) T { return ok.value }

func (ng tryNg[T]) OrFatal(ftl Fataler) T {
	if hlp, ok := ftl.(interface{ Helper() }); ok {
		hlp.Helper()
	}
	ftl.Fatal(ng.err)
	return *new(T)
}
