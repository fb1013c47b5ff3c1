//go:build !linux && !darwin

package paste

func Init() error { return ErrUnsupported }

func send() error { return ErrUnsupported }
