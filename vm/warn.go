package vm

// Warn emits a guest warning. The message is always logged; it is also
// forwarded to Kernel.warn unless the $stderr global is nil.
func (vm *VM) Warn(message string) error {
	log.Warningf("guest warning: %s", message)
	if vm.Global("$stderr").IsNil() {
		return nil
	}
	kernel := vm.ClassValue(vm.KernelClass)
	_, err := vm.Send(kernel, "warn", vm.NewString(message))
	return err
}
