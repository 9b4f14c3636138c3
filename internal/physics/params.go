package physics

import (
	"fmt"

	"github.com/san-kum/thermoscan/internal/linalg"
)

// Params are fixed for the life of a simulation.
type Params struct {
	N, M int

	Dx        float64 // grid spacing [m]
	Kt        float64 // conductivity [W/(m K)]
	Rho       float64 // density [kg/m³]
	Cp        float64 // heat capacity [J/(kg K)]
	Alpha     float64 // diffusivity [m²/s]
	Power     float64 // absorbed laser power [W]
	TInit     float64 // initial bed temperature [K]
	TAmbient  float64 // ambient temperature [K]
	TMelt     float64 // melt temperature [K]
	HConv     float64 // convection coefficient [W/(m² K)]
	ScanSpeed float64 // [m/s]
	Dt        float64 // sampling interval [s]
	Length    float64 // island edge length [m]

	F float64 // diffusion number
	G float64 // power injection number
	H float64 // convection number

	StepsPerIsland int
}

// New derives every parameter from the game size. The island grid is square.
func New(size int) Params {
	p := Params{
		N:         size,
		M:         size,
		Dx:        200e-6,
		Kt:        24,
		Rho:       7800,
		Cp:        460,
		Power:     180 * 0.37,
		TInit:     293,
		TAmbient:  293,
		TMelt:     273 + 1427,
		HConv:     20,
		ScanSpeed: 0.6,
	}
	p.Alpha = p.Kt / (p.Rho * p.Cp)
	p.Dt = p.Dx / p.ScanSpeed
	p.Length = float64(p.N) * p.Dx
	p.F = p.Alpha * p.Dt / p.Dx / p.Dx
	p.G = p.Alpha * p.Power * p.Dt / p.Kt / p.Dx / p.Dx / p.Dx
	p.H = p.Alpha * p.HConv * p.Dt / p.Kt / p.Dx
	p.StepsPerIsland = p.N * p.N
	return p
}

// Width is the lattice side, N·M cells.
func (p Params) Width() int { return p.N * p.M }

// Cells is the number of field cells, (N·M)².
func (p Params) Cells() int { return p.Width() * p.Width() }

// StateDim is Cells plus the two ambient entries.
func (p Params) StateDim() int { return p.Cells() + 2 }

// Islands is the number of scannable islands.
func (p Params) Islands() int { return p.N * p.M }

// InitialState returns Cells copies of TInit followed by two of TAmbient.
func (p Params) InitialState() linalg.Vector {
	x := linalg.Fill(p.StateDim(), p.TInit)
	x[p.Cells()] = p.TAmbient
	x[p.Cells()+1] = p.TAmbient
	return x
}

func (p Params) String() string {
	return fmt.Sprintf("N=%d M=%d F=%.4g G=%.4g H=%.4g dt=%.4gs", p.N, p.M, p.F, p.G, p.H, p.Dt)
}
