package nocopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type owner struct {
	addr *owner
	n    int
}

func (o *owner) bump() {
	Check(&o.addr, o, "owner")
	o.n++
}

func TestCheck_ArmsOnFirstUse(t *testing.T) {
	var o owner
	o.bump()
	o.bump()

	assert.Same(t, &o, o.addr)
	assert.Equal(t, 2, o.n)
}

func TestCheck_ZeroValueMayBeCopied(t *testing.T) {
	var o owner
	c := o
	c.bump()
	assert.Equal(t, 1, c.n)
}

func TestCheck_PanicsOnCopy(t *testing.T) {
	var o owner
	o.bump()
	c := o

	assert.PanicsWithValue(t, "owner: illegal use of non-zero owner copied by value", func() {
		c.bump()
	})
}

func TestHide_ReturnsSamePointer(t *testing.T) {
	x := 7
	assert.Same(t, &x, Hide(&x))
}
