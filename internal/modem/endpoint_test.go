package modem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_NonBlockingReturnsWhatsAvailable(t *testing.T) {
	m := NewModem(Options{RXTimeoutMS: int(RXNonBlocking)})
	require.True(t, m.rxFIFO.push('a'))
	require.True(t, m.rxFIFO.push('b'))

	buf := make([]byte, 5)
	n, err := m.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{'a', 'b'}, buf[:n])
}

func TestRead_NonBlockingEmptyQueueReturnsZero(t *testing.T) {
	m := NewModem(Options{RXTimeoutMS: int(RXNonBlocking)})
	buf := make([]byte, 5)
	n, err := m.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRead_InfiniteBlocksUntilDelivered(t *testing.T) {
	m := NewModem(Options{RXTimeoutMS: int(RXInfinite)})

	done := make(chan struct{})
	buf := make([]byte, 3)
	go func() {
		n, err := m.Read(buf)
		assert.NoError(t, err)
		assert.Equal(t, 3, n)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("Read returned before enough bytes were available")
	default:
	}

	m.rxFIFO.push('x')
	m.rxFIFO.push('y')
	m.rxFIFO.push('z')

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Read did not unblock after bytes became available")
	}
	assert.Equal(t, []byte{'x', 'y', 'z'}, buf)
}

func TestRead_PositiveTimeoutReturnsShortCount(t *testing.T) {
	m := NewModem(Options{RXTimeoutMS: 20})
	require.True(t, m.rxFIFO.push('a'))

	buf := make([]byte, 3)
	n, err := m.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWrite_BlocksUntilQueueHasRoom(t *testing.T) {
	m := NewModem(Options{TXQueueSize: 1})
	require.True(t, m.txFIFO.push(0xFF)) // fill the one-byte queue

	done := make(chan struct{})
	go func() {
		n, err := m.Write([]byte{0x01})
		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("Write returned before the queue had room")
	default:
	}

	_, _ = m.txFIFO.pop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Write did not unblock once the queue had room")
	}
}

func TestWrite_StartsTransmission(t *testing.T) {
	m := NewModem(Options{})
	require.False(t, m.Sending())
	_, err := m.Write([]byte{0x01, 0x02})
	require.NoError(t, err)
	assert.True(t, m.Sending())
}

func TestFlush_ReturnsOnceSendingStops(t *testing.T) {
	m := NewModem(Options{})
	m.sending.Store(true)

	done := make(chan struct{})
	go func() {
		m.Flush()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("Flush returned while still sending")
	default:
	}

	m.sending.Store(false)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Flush did not return once sending stopped")
	}
}
