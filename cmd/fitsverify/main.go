// Command fitsverify validates FITS files against the FITS Standard.
package main

func main() {
	execute()
}
