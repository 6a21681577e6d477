// Package flatfile stores the dormitory state in comma-delimited text files.
//
// # File Layout
//
//	setup.txt          name, address, floors, rooms per floor (one per line)
//	roomStatus.txt     roomNumber,status
//	dormers.txt        roomNumber,userId,firstName,lastName,address,birthday,email,phone,payment,entryDate
//	paymentStatus.txt  roomNumber,amount,month,isPaid,dueDate
//
// Dates are MM/DD/YYYY. Lines that do not decode are logged and skipped, a
// missing file reads as empty. Every save rewrites the whole file through a
// temporary file that is renamed into place.
package flatfile
