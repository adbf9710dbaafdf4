package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError は回復されたパニックから生成されたエラーです。
// 並列の交差検証ラウンドやバッチ予測のワーカーで発生したパニックを呼び出し元へ返すために使います。
type PanicError struct {
	// PanicValue は panic() に渡された値です。
	PanicValue interface{}

	// StackTrace はパニック発生時点のスタックトレースです。
	StackTrace string

	// Operation はパニックを回復した操作名です。
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("gocart: panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap はパニック値がerrorであればそれを返します。
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String はスタックトレースを含む詳細な情報を返します。
func (e *PanicError) String() string {
	return fmt.Sprintf("%s\nStack trace:\n%s", e.Error(), e.StackTrace)
}

// NewPanicError は新しいPanicErrorを作成します。
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover は defer と組み合わせてパニックをエラーに変換します。
//
//	func (b *Builder) Build(ds dataset.Dataset) (tree *Tree, err error) {
//	    defer errors.Recover(&err, "Builder.Build")
//	    ...
//	}
//
// 既にエラーが設定されている場合は、そのエラーをパニック情報でラップします。
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		panicErr := NewPanicError(operation, r)
		if *err != nil {
			*err = Wrapf(*err, "%s (after earlier error)", panicErr.Error())
			return
		}
		*err = panicErr
	}
}

// SafeExecute は fn を実行し、パニックが発生した場合はPanicErrorとして返します。
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
