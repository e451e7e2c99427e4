package storage

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestTranslateWriteErrDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{
			{Code: 11000, Message: "E11000 duplicate key error collection: assets index: barcodeValue_1"},
		},
	}

	if got := translateWriteErr(dup); !errors.Is(got, ErrDuplicateKey) {
		t.Errorf("duplicate-key write exception translated to %v, want ErrDuplicateKey", got)
	}
}

func TestTranslateWriteErrPassthrough(t *testing.T) {
	if got := translateWriteErr(nil); got != nil {
		t.Errorf("nil error translated to %v", got)
	}

	plain := errors.New("connection reset")
	if got := translateWriteErr(plain); !errors.Is(got, plain) {
		t.Errorf("unrelated error rewritten to %v", got)
	}
	if errors.Is(translateWriteErr(plain), ErrDuplicateKey) {
		t.Error("unrelated error must not read as a duplicate key")
	}
}
