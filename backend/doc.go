/*
Package backend provides an abstraction layer to the available computational backends, currently implemented:

	- naive (naive implementation, no optimizations)
	- blas32 (gonum blas32 interface)
	- gonum (gonum mat dense types, float64)
	- accel (asynchronous command queue running blas32 kernels on its own goroutine)
	- js (kernels interpreted by an embedded javascript vm)

Backends are reached through devices, see Resolve.
*/
package backend
