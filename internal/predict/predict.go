// Package predict estimates nanoparticle properties from formulation
// parameters. The Formula predictor is a linear response model, not a
// trained model; real inference plugs in behind Predictor.
package predict

import (
	"context"
	"math"

	"nanoeln/pkg/domain"
)

// Predictor estimates characterization outputs for a set of parameters.
type Predictor interface {
	Predict(ctx context.Context, params domain.ProcessParameters) (domain.Predictions, error)
}

// Suggester is implemented by predictors that can propose parameters
// expected to hit the optimum targets.
type Suggester interface {
	Suggest(params domain.ProcessParameters) domain.ProcessParameters
}

// Targets are the particle properties the optimizer aims for.
type Targets struct {
	ZAverage                float64
	PDI                     float64
	EncapsulationEfficiency float64
}

// DefaultTargets are the optimum values shown alongside predictions.
var DefaultTargets = Targets{ZAverage: 80, PDI: 0.10, EncapsulationEfficiency: 95}

// Reference formulation the response model is centred on.
const (
	refIonizable   = 50.0
	refCholesterol = 38.5
	refPEG         = 1.5
	refFlow        = 3.0
	refTemperature = 25.0
	refPH          = 4.0
)

type bounds struct{ lo, hi float64 }

func (b bounds) clamp(v float64) float64 { return math.Max(b.lo, math.Min(b.hi, v)) }

var (
	sizeBounds = bounds{50, 150}
	pdiBounds  = bounds{0.05, 0.3}
	eeBounds   = bounds{75, 99}
	zetaBounds = bounds{-10, 0}

	pegBounds  = bounds{0.5, 5}
	flowBounds = bounds{0.5, 20}
	cholBounds = bounds{20, 50}
)

// Formula is the linear response model. Noise, when set, must return values
// in [0,1); each predicted value and confidence draws once. A nil Noise
// makes predictions deterministic.
type Formula struct {
	Noise   func() float64
	Targets Targets
}

var (
	_ Predictor = Formula{}
	_ Suggester = Formula{}
)

func (f Formula) draw() float64 {
	if f.Noise == nil {
		return 0
	}
	return f.Noise()
}

// Predict applies the response model to params.
func (f Formula) Predict(ctx context.Context, params domain.ProcessParameters) (domain.Predictions, error) {
	if err := ctx.Err(); err != nil {
		return domain.Predictions{}, err
	}
	lc := params.LipidComposition
	baseSize := 75 + (lc.IonizableLipid-refIonizable)*0.8 - (lc.PEGLipid-refPEG)*5 - (params.FlowRate-refFlow)*3
	basePDI := 0.12 - (params.FlowRate-refFlow)*0.01 + (lc.PEGLipid-refPEG)*0.02
	baseEE := 92 + (lc.Cholesterol-refCholesterol)*0.5 - (params.Temperature-refTemperature)*0.2
	baseZeta := -3 + (params.PH-refPH)*0.5

	return domain.Predictions{
		ZAverage: domain.PredictedValue{
			Value:      sizeBounds.clamp(baseSize + f.draw()*10),
			Confidence: 0.88 + f.draw()*0.1,
		},
		PDI: domain.PredictedValue{
			Value:      pdiBounds.clamp(basePDI + f.draw()*0.02),
			Confidence: 0.85 + f.draw()*0.1,
		},
		EncapsulationEfficiency: domain.PredictedValue{
			Value:      eeBounds.clamp(baseEE + f.draw()*5),
			Confidence: 0.89 + f.draw()*0.08,
		},
		ZetaPotential: domain.PredictedValue{
			Value:      zetaBounds.clamp(baseZeta + f.draw()*2),
			Confidence: 0.82 + f.draw()*0.1,
		},
	}, nil
}

// Suggest inverts the noise-free model: cholesterol is solved for the
// encapsulation target, then PEG-lipid and flow rate jointly for the size
// and PDI targets. Ionizable lipid, temperature and pH are held. DSPC absorbs
// the remainder so the composition still sums to 100%.
func (f Formula) Suggest(params domain.ProcessParameters) domain.ProcessParameters {
	t := f.Targets
	if t == (Targets{}) {
		t = DefaultTargets
	}
	out := params
	lc := &out.LipidComposition

	lc.Cholesterol = cholBounds.clamp(refCholesterol + (t.EncapsulationEfficiency-92+(params.Temperature-refTemperature)*0.2)/0.5)

	// size: -3x - 5y = b, pdi: -0.01x + 0.02y = a, with x = flow-3, y = peg-1.5
	a := t.PDI - 0.12
	b := t.ZAverage - 75 - (lc.IonizableLipid-refIonizable)*0.8
	y := (300*a - b) / 11
	x := 2*y - 100*a
	lc.PEGLipid = pegBounds.clamp(refPEG + y)
	out.FlowRate = flowBounds.clamp(refFlow + x)

	lc.DSPC = math.Max(0, 100-lc.IonizableLipid-lc.Cholesterol-lc.PEGLipid)
	return Normalize(out)
}

// Normalize fills the derived parameters the optimizer does not expose:
// total flow is four times the lipid flow, the aqueous to organic ratio is
// 3 and mixing runs at 1200 rpm.
func Normalize(params domain.ProcessParameters) domain.ProcessParameters {
	params.TotalFlowRate = params.FlowRate * 4
	if params.AqueousToOrganicRatio == 0 {
		params.AqueousToOrganicRatio = 3
	}
	if params.MixingSpeed == 0 {
		params.MixingSpeed = 1200
	}
	return params
}
