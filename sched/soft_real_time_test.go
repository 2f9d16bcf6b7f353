package sched_test

import (
	"time"

	"github.com/sinfaen/rsisgo/config"
	"github.com/sinfaen/rsisgo/sched"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("soft real time", func() {
	It("property 7: config_scheduler(\"srt\") paces a run to at least (n-1)/f seconds", func() {
		const freq = 20.0 // Hz, frame width 50ms
		const n = 3       // (n-1)/f == 100ms theoretical minimum

		s := sched.New()
		Expect(s.AddThread(freq)).To(Succeed())

		key, err := config.EncodeKey(config.KeySoftRealTime)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Config(key, nil)).To(Succeed())

		m := &stubModel{}
		_, err = s.AddModel(m, 0, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Init()).To(Succeed())
		Eventually(s.GetState, time.Second).Should(Equal(sched.StateInitialized))

		start := time.Now()
		Expect(s.Step(n)).To(Succeed())
		Eventually(s.GetState, 5*time.Second).Should(Equal(sched.StatePaused))
		elapsed := time.Since(start)

		Expect(elapsed).To(BeNumerically(">=", 100*time.Millisecond))

		Expect(s.End()).To(Succeed())
		Eventually(s.GetState, time.Second).Should(Equal(sched.StateEnded))
	})

	It("does not pace when soft real time is left disabled", func() {
		s := sched.New()
		Expect(s.AddThread(10)).To(Succeed())
		m := &stubModel{}
		_, err := s.AddModel(m, 0, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Init()).To(Succeed())
		Eventually(s.GetState, time.Second).Should(Equal(sched.StateInitialized))

		start := time.Now()
		Expect(s.Step(50)).To(Succeed())
		Eventually(s.GetState, time.Second).Should(Equal(sched.StatePaused))
		Expect(time.Since(start)).To(BeNumerically("<", 200*time.Millisecond))

		Expect(s.End()).To(Succeed())
	})
})
