package analysis

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/sim"
)

// BodyPeriod is the spectral period estimate for one body. Err is set when
// the body's motion has no detectable period.
type BodyPeriod struct {
	Index  int
	Period float64
	Power  float64
	Err    error
}

// OrbitalPeriods estimates each body's orbital period from evenly sampled
// frames. Positions are taken relative to the frame centroid and the power
// spectra of the three axes are summed before picking the peak.
func OrbitalPeriods(frames []sim.Frame) ([]BodyPeriod, error) {
	if len(frames) < 4 {
		return nil, ErrTooFewSamples
	}
	dt := frames[1].Time - frames[0].Time
	if !(dt > 0) {
		return nil, ErrBadInterval
	}

	n := len(frames[0].Positions)
	series := make([][3][]float64, n)
	for i := range series {
		for axis := range series[i] {
			series[i][axis] = make([]float64, len(frames))
		}
	}
	for f, frame := range frames {
		c := centroid(frame)
		for i := 0; i < n && i < len(frame.Positions); i++ {
			p := vec64(frame.Positions[i]).Sub(c)
			for axis := 0; axis < 3; axis++ {
				series[i][axis][f] = p[axis]
			}
		}
	}

	out := make([]BodyPeriod, n)
	for i := range series {
		var total []float64
		for axis := 0; axis < 3; axis++ {
			ps := PowerSpectrum(series[i][axis])
			if total == nil {
				total = ps
				continue
			}
			for k := range ps {
				total[k] += ps[k]
			}
		}
		out[i] = BodyPeriod{Index: i}
		k := peakBin(total)
		if k == 0 {
			out[i].Err = ErrNoSignal
			continue
		}
		out[i].Period = float64(len(frames)) * dt / float64(k)
		out[i].Power = total[k]
	}
	return out, nil
}

func centroid(f sim.Frame) mgl64.Vec3 {
	var c mgl64.Vec3
	if len(f.Positions) == 0 {
		return c
	}
	for _, p := range f.Positions {
		c = c.Add(vec64(p))
	}
	return c.Mul(1 / float64(len(f.Positions)))
}

func vec64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}
