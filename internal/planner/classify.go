package planner

import "github.com/alexanderramin/capplan/internal/domain"

// Order stable-partitions initiatives into the protected block followed by
// everything else. Relative order inside each block is preserved; this is
// the only ordering used for the cumulative sum.
func Order(initiatives []*domain.Initiative) []*domain.Initiative {
	ordered := make([]*domain.Initiative, 0, len(initiatives))
	for _, init := range initiatives {
		if init.IsProtected {
			ordered = append(ordered, init)
		}
	}
	for _, init := range initiatives {
		if !init.IsProtected {
			ordered = append(ordered, init)
		}
	}
	return ordered
}

// Classify walks the non-completed initiatives in protected-first order,
// writing CumulativeSDE and Classification on each. An initiative is BTL iff
// the running total including it exceeds limit. Protection buys position,
// not funding: a protected initiative is BTL when the protected block alone
// overruns the limit.
//
// The returned slice is the classification order. Completed initiatives are
// excluded and left untouched.
func Classify(initiatives []*domain.Initiative, limit float64) []*domain.Initiative {
	active := make([]*domain.Initiative, 0, len(initiatives))
	for _, init := range initiatives {
		if !init.IsCompleted() {
			active = append(active, init)
		}
	}

	ordered := Order(active)
	cum := 0.0
	for _, init := range ordered {
		cum += init.TotalSDE()
		init.CumulativeSDE = cum
		if cum > limit {
			init.Classification = domain.ClassBTL
		} else {
			init.Classification = domain.ClassATL
		}
	}
	return ordered
}

// ATL returns the above-the-line subset, preserving order.
func ATL(classified []*domain.Initiative) []*domain.Initiative {
	return filterClass(classified, domain.ClassATL)
}

// BTL returns the below-the-line subset, preserving order.
func BTL(classified []*domain.Initiative) []*domain.Initiative {
	return filterClass(classified, domain.ClassBTL)
}

func filterClass(list []*domain.Initiative, c domain.Classification) []*domain.Initiative {
	var out []*domain.Initiative
	for _, init := range list {
		if init.Classification == c {
			out = append(out, init)
		}
	}
	return out
}
