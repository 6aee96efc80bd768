package codec_test

import (
	"testing"

	"github.com/bearlytools/recordmodel/codec"
)

func TestChecksumBinVerifyBin(t *testing.T) {
	a := []byte("hello")
	b := []byte("hellp")

	sum := codec.ChecksumBin(a)
	if !codec.VerifyBin(a, sum) {
		t.Errorf("TestChecksumBinVerifyBin: VerifyBin(a, ChecksumBin(a)) = false, want true")
	}
	if codec.VerifyBin(b, sum) {
		t.Errorf("TestChecksumBinVerifyBin: VerifyBin(b, ChecksumBin(a)) = true, want false")
	}
}
