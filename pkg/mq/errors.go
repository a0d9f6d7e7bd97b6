package mq

type TempError struct {
	Err error
}

func (e TempError) Error() string {
	return e.Err.Error()
}

func (e TempError) Temporary() bool {
	return true
}

func (e TempError) Unwrap() error {
	return e.Err
}

// Temporary marks err as retryable so the consumer requeues the delivery.
func Temporary(err error) error {
	return TempError{Err: err}
}
