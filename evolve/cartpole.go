// Package evolve trains linear cart-pole balancing policies with a
// genetic algorithm: truncation selection, configurable crossover and
// gaussian mutation, evaluated on a built-in physics simulation of the
// classic pole-balancing task.
package evolve

import (
	"math"

	"lukechampine.com/frand"
)

// Physics constants for the classic control benchmark: a 1kg cart on a
// frictionless track balancing a 0.1kg pole of half-length 0.5m, driven
// by a fixed-magnitude force and integrated with 20ms Euler steps.
const (
	gravity        = 9.8
	cartMass       = 1.0
	poleMass       = 0.1
	totalMass      = cartMass + poleMass
	halfPoleLength = 0.5
	poleMassLength = poleMass * halfPoleLength
	forceMag       = 10.0
	tau            = 0.02

	xThreshold     = 2.4
	thetaThreshold = 12 * 2 * math.Pi / 360
)

// MaxEpisodeSteps caps episode length. A policy that survives the cap
// earns the maximum episode reward of 500.
const MaxEpisodeSteps = 500

// Observation is the cart-pole state vector: cart position, cart
// velocity, pole angle, pole angular velocity.
type Observation [4]float64

// CartPole simulates one episode at a time. Not safe for concurrent
// use; give each worker its own instance.
type CartPole struct {
	x        float64
	xDot     float64
	theta    float64
	thetaDot float64
	steps    int
}

func NewCartPole() *CartPole {
	return &CartPole{}
}

// Reset starts a new episode with every state variable drawn uniformly
// from [-0.05, 0.05] and returns the initial observation.
func (c *CartPole) Reset() Observation {
	c.x = frand.Float64()*0.1 - 0.05
	c.xDot = frand.Float64()*0.1 - 0.05
	c.theta = frand.Float64()*0.1 - 0.05
	c.thetaDot = frand.Float64()*0.1 - 0.05
	c.steps = 0
	return c.Observation()
}

func (c *CartPole) Observation() Observation {
	return Observation{c.x, c.xDot, c.theta, c.thetaDot}
}

// Step pushes the cart left (action 0) or right (action 1) for one
// tick. The episode is done when the cart leaves the track, the pole
// tips past 12 degrees, or the step cap is reached; every step earns a
// reward of 1.
func (c *CartPole) Step(action int) (Observation, float64, bool) {
	force := -forceMag
	if action == 1 {
		force = forceMag
	}
	cosTheta := math.Cos(c.theta)
	sinTheta := math.Sin(c.theta)
	temp := (force + poleMassLength*c.thetaDot*c.thetaDot*sinTheta) / totalMass
	thetaAcc := (gravity*sinTheta - cosTheta*temp) /
		(halfPoleLength * (4.0/3.0 - poleMass*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cosTheta/totalMass

	c.x += tau * c.xDot
	c.xDot += tau * xAcc
	c.theta += tau * c.thetaDot
	c.thetaDot += tau * thetaAcc
	c.steps++

	done := c.x < -xThreshold || c.x > xThreshold ||
		c.theta < -thetaThreshold || c.theta > thetaThreshold ||
		c.steps >= MaxEpisodeSteps
	return c.Observation(), 1, done
}

// Weights is a linear policy over the observation vector.
type Weights [4]float64

// Action maps an observation to a push direction by the sign of the
// dot product: negative pushes left, anything else pushes right.
func (w Weights) Action(obs Observation) int {
	dot := 0.0
	for i, wi := range w {
		dot += wi * obs[i]
	}
	if dot < 0 {
		return 0
	}
	return 1
}

// EpisodeReward plays one episode of w on env and returns the total
// reward collected.
func EpisodeReward(env *CartPole, w Weights) float64 {
	obs := env.Reset()
	total := 0.0
	for {
		next, reward, done := env.Step(w.Action(obs))
		total += reward
		if done {
			return total
		}
		obs = next
	}
}

// AverageReward is the fitness of w: the mean total reward over a
// number of independent episodes with randomized starts.
func AverageReward(env *CartPole, w Weights, episodes int) float64 {
	total := 0.0
	for i := 0; i < episodes; i++ {
		total += EpisodeReward(env, w)
	}
	return total / float64(episodes)
}
