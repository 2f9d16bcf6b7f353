package cos_test

import (
	"errors"

	"github.com/sinfaen/rsisgo/cmn/cos"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Errs", func() {
	It("dedups identical errors and reports a tail count", func() {
		var e cos.Errs
		e.Add(errors.New("boom"))
		e.Add(errors.New("boom"))
		e.Add(errors.New("bang"))
		Expect(e.Cnt()).To(Equal(2))
		Expect(e.Error()).To(ContainSubstring("and 1 more error"))
	})

	It("caps accumulation at maxErrs", func() {
		var e cos.Errs
		for i := 0; i < 10; i++ {
			e.Add(errors.New(string(rune('a' + i))))
		}
		Expect(e.Cnt()).To(Equal(4))
	})
})

var _ = Describe("ids", func() {
	BeforeEach(func() {
		cos.InitShortID(1)
	})

	It("generates ids that look valid", func() {
		id := cos.GenID()
		Expect(cos.IsValidID(id)).To(BeTrue())
		Expect(len(id)).To(BeNumerically(">=", cos.LenShortID))
	})

	It("rejects ids starting or ending with a separator", func() {
		Expect(cos.IsAlphaNice("-abc")).To(BeFalse())
		Expect(cos.IsAlphaNice("abc_")).To(BeFalse())
		Expect(cos.IsAlphaNice("ab-c")).To(BeTrue())
	})
})
