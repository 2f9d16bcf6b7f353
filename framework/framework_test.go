package framework_test

import (
	"github.com/sinfaen/rsisgo/databuf"
	"github.com/sinfaen/rsisgo/framework"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Impl", func() {
	It("hands out an rx endpoint exactly once per id, property 5", func() {
		fw := framework.New()
		_, ok := fw.RequestRx(7)
		Expect(ok).To(BeTrue())
		_, ok = fw.RequestRx(7)
		Expect(ok).To(BeFalse())
	})

	It("delivers a sent message FIFO", func() {
		fw := framework.New()
		rxEp, ok := fw.RequestRx(1)
		Expect(ok).To(BeTrue())
		txEp := fw.RequestTx(1)

		Expect(txEp.Send(databuf.Wrap([]byte("a")))).To(Succeed())
		Expect(txEp.Send(databuf.Wrap([]byte("b")))).To(Succeed())

		first, err := rxEp.Recv()
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Bytes()).To(Equal([]byte("a")))

		second, err := rxEp.Recv()
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Bytes()).To(Equal([]byte("b")))
	})

	It("TryRecv reports empty without blocking", func() {
		fw := framework.New()
		rxEp, _ := fw.RequestRx(2)
		_, err := rxEp.TryRecv()
		Expect(err).To(MatchError(framework.ErrEmpty))
	})

	It("shares clock and registry across Clone", func() {
		fw := framework.New()
		clone := fw.Clone()
		fw.IncrementClock()
		Expect(clone.GetSimTick()).To(Equal(int64(1)))

		txEp := fw.RequestTx(5)
		Expect(txEp.Send(databuf.Wrap([]byte{9}))).To(Succeed())
		rxEp, ok := clone.RequestRx(5)
		Expect(ok).To(BeTrue())
		msg, err := rxEp.Recv()
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Bytes()).To(Equal([]byte{9}))
	})

	It("Clear disconnects outstanding endpoints", func() {
		fw := framework.New()
		rxEp, _ := fw.RequestRx(3)
		fw.Clear()
		_, err := rxEp.TryRecv()
		Expect(err).To(MatchError(framework.ErrDisconnected))
	})
})
